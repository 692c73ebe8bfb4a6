package authz

// Rule is one row of the static policy document (§4.1): a role holding
// an entry for (resource, action, domain kind) is allowed to perform
// that action on that resource within any domain of that kind in which
// the principal holds the role. Effect is allow-only; a missing rule
// is deny, never an error.
type Rule struct {
	Role     Role
	Resource Resource
	Action   Action
	Kind     DomainKind
}

// policyTable is the static document. It is fixed at compile time; a
// future on-disk policy file would be parsed once at startup and any
// parse error there is fatal (§4.1 "Policy-file parse errors at
// startup are fatal") — this in-process table can never fail to parse.
var policyTable = buildPolicyTable()

func buildPolicyTable() []Rule {
	var rules []Rule

	add := func(role Role, kind DomainKind, resource Resource, actions ...Action) {
		for _, a := range actions {
			rules = append(rules, Rule{Role: role, Resource: resource, Action: a, Kind: kind})
		}
	}

	all := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage}

	// org_owner: full control at the organization level. Deleting an
	// organization and managing its subscription are owner-only,
	// mirroring I5's single-owner invariant.
	add(RoleOrgOwner, DomainKindOrg, ResourceOrganization, all...)
	add(RoleOrgOwner, DomainKindOrg, ResourceSchool, all...)
	add(RoleOrgOwner, DomainKindOrg, ResourceTeacher, all...)
	add(RoleOrgOwner, DomainKindOrg, ResourceClassroom, all...)
	add(RoleOrgOwner, DomainKindOrg, ResourceStudent, all...)
	add(RoleOrgOwner, DomainKindOrg, ResourceAssignment, all...)
	add(RoleOrgOwner, DomainKindOrg, ResourceSubscription, all...)
	add(RoleOrgOwner, DomainKindOrg, ResourceManageMaterials, all...)

	// org_admin: same operational reach as org_owner over schools,
	// teachers, classrooms, students, assignments and materials; on the
	// organization itself only read and update, and subscriptions
	// read-only.
	add(RoleOrgAdmin, DomainKindOrg, ResourceOrganization, ActionRead, ActionUpdate)
	add(RoleOrgAdmin, DomainKindOrg, ResourceSchool, all...)
	add(RoleOrgAdmin, DomainKindOrg, ResourceTeacher, all...)
	add(RoleOrgAdmin, DomainKindOrg, ResourceClassroom, all...)
	add(RoleOrgAdmin, DomainKindOrg, ResourceStudent, all...)
	add(RoleOrgAdmin, DomainKindOrg, ResourceAssignment, all...)
	add(RoleOrgAdmin, DomainKindOrg, ResourceSubscription, ActionRead)
	add(RoleOrgAdmin, DomainKindOrg, ResourceManageMaterials, all...)

	// school_admin: manages everything within its school except the
	// school row's own lifecycle (owned by the organization) and billing.
	add(RoleSchoolAdmin, DomainKindSchool, ResourceSchool, ActionRead, ActionUpdate)
	add(RoleSchoolAdmin, DomainKindSchool, ResourceTeacher, all...)
	add(RoleSchoolAdmin, DomainKindSchool, ResourceClassroom, all...)
	add(RoleSchoolAdmin, DomainKindSchool, ResourceStudent, all...)
	add(RoleSchoolAdmin, DomainKindSchool, ResourceAssignment, all...)
	add(RoleSchoolAdmin, DomainKindSchool, ResourceSubscription, ActionRead)
	add(RoleSchoolAdmin, DomainKindSchool, ResourceManageMaterials, all...)

	// teacher: owns its own classrooms/assignments, reads the rest.
	add(RoleTeacher, DomainKindSchool, ResourceSchool, ActionRead)
	add(RoleTeacher, DomainKindSchool, ResourceTeacher, ActionRead)
	add(RoleTeacher, DomainKindSchool, ResourceClassroom, ActionCreate, ActionRead, ActionUpdate)
	add(RoleTeacher, DomainKindSchool, ResourceStudent, ActionCreate, ActionRead, ActionUpdate)
	add(RoleTeacher, DomainKindSchool, ResourceAssignment, ActionCreate, ActionRead, ActionUpdate, ActionDelete)
	add(RoleTeacher, DomainKindSchool, ResourceSubscription, ActionRead)
	add(RoleTeacher, DomainKindSchool, ResourceManageMaterials, ActionRead)

	return rules
}

// allows reports whether any rule grants (role, resource, action) at
// the given domain kind.
func allows(role Role, resource Resource, action Action, kind DomainKind) bool {
	for _, r := range policyTable {
		if r.Role == role && r.Resource == resource && r.Action == action && r.Kind == kind {
			return true
		}
	}
	return false
}
