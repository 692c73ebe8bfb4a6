// Package orggraph implements the organization graph service (§4.2):
// Organization and School CRUD, teacher-to-school assignment with
// union role semantics, cascading soft-delete, and the settings-map
// operations. Every mutation persists to the database first and then
// write-throughs into the in-memory internal/authz.Engine so Engine.Check
// never needs a database round-trip.
package orggraph

import (
	"context"
	"strings"

	"github.com/duotopia/backend/internal/apperr"
	"github.com/duotopia/backend/internal/authz"
	"github.com/duotopia/backend/internal/domain/models"
)

// Service is the organization graph API consumed by HTTP handlers.
type Service struct {
	repo   Repository
	engine *authz.Engine
}

// NewService constructs a Service bound to repo and engine.
func NewService(repo Repository, engine *authz.Engine) *Service {
	return &Service{repo: repo, engine: engine}
}

// CreateOrganization creates an organization and grants req.OwnerID the
// org_owner role on it. Fails with a ConflictError only if the
// in-memory grant step itself rejects a second owner, which cannot
// happen for a brand-new organization; the check exists because Grant
// is the single source of truth for I5.
func (s *Service) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*models.Organization, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, apperr.Validation("display_name is required", nil)
	}

	org := &models.Organization{DisplayName: name, IsActive: true}
	if req.InitSettings != nil {
		if err := org.SetSettingsMap(req.InitSettings); err != nil {
			return nil, apperr.Validation("invalid settings", nil)
		}
	}

	membership := &models.TeacherOrganization{
		TeacherID: req.OwnerID,
		Role:      models.OrgRoleOwner,
		IsActive:  true,
	}

	if err := s.repo.CreateOrganizationWithOwner(ctx, org, membership); err != nil {
		return nil, err
	}

	if err := s.engine.Grant(req.OwnerID, authz.RoleOrgOwner, org.Domain()); err != nil {
		return nil, err
	}

	return org, nil
}

// GetOrganization fetches an organization by ID.
func (s *Service) GetOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	org, err := s.repo.FindOrganizationByID(ctx, id)
	if err != nil {
		if err == ErrOrganizationNotFound {
			return nil, errOrganizationNotFound(id)
		}
		return nil, err
	}
	return org, nil
}

// ListVisibleOrganizations returns every active organization principal
// may read, resolved entirely from the in-memory authz snapshot.
func (s *Service) ListVisibleOrganizations(ctx context.Context, principalID uint) ([]models.Organization, error) {
	ids := parseDomainIDs(s.engine.VisibleDomains(principalID, authz.ResourceOrganization, authz.ActionRead), authz.DomainKindOrg)
	orgs, err := s.repo.ListOrganizationsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return filterActiveOrgs(orgs), nil
}

// DeleteOrganization cascades a soft-delete across the organization,
// its schools, and every membership row attached to either, then
// write-throughs the revocation into the authz engine.
func (s *Service) DeleteOrganization(ctx context.Context, organizationID uint) error {
	schools, teacherOrgs, teacherSchools, err := s.repo.DeactivateOrganizationCascade(ctx, organizationID)
	if err != nil {
		if err == ErrOrganizationNotFound {
			return errOrganizationNotFound(organizationID)
		}
		return err
	}

	for _, school := range schools {
		s.engine.ClearSchoolOrg(school.ID)
	}
	s.revokeAllGrantsForOrganization(organizationID, teacherOrgs, teacherSchools)
	return nil
}

// ReactivateOrganization reverses DeleteOrganization: it reactivates
// the organization, its schools, and every membership row that was
// active at the time of deletion, re-establishing each as an authz
// grant.
func (s *Service) ReactivateOrganization(ctx context.Context, organizationID uint) error {
	schools, teacherOrgs, teacherSchools, err := s.repo.ActivateOrganizationCascade(ctx, organizationID)
	if err != nil {
		if err == ErrOrganizationNotFound {
			return errOrganizationNotFound(organizationID)
		}
		return err
	}

	for _, m := range teacherOrgs {
		role, ok := orgRoleToAuthz(m.Role)
		if ok {
			_ = s.engine.Grant(m.TeacherID, role, authz.OrgDomain(organizationID))
		}
	}
	for _, school := range schools {
		s.engine.SetSchoolOrg(school.ID, organizationID)
	}
	for _, m := range teacherSchools {
		for _, r := range m.RoleSet() {
			role, ok := schoolRoleToAuthz(r)
			if ok {
				_ = s.engine.Grant(m.TeacherID, role, authz.SchoolDomain(m.SchoolID))
			}
		}
	}
	return nil
}

// GetSettings decodes an organization's settings map.
func (s *Service) GetSettings(ctx context.Context, organizationID uint) (map[string]interface{}, error) {
	org, err := s.GetOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return org.SettingsMap(), nil
}

// UpdateSettings merges patch into the organization's settings map and
// persists the result (supplemented feature D.1).
func (s *Service) UpdateSettings(ctx context.Context, organizationID uint, patch map[string]interface{}) (map[string]interface{}, error) {
	org, err := s.GetOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	merged := org.SettingsMap()
	for k, v := range patch {
		merged[k] = v
	}
	if err := org.SetSettingsMap(merged); err != nil {
		return nil, apperr.Validation("invalid settings", nil)
	}
	if err := s.repo.UpdateOrganization(ctx, org); err != nil {
		return nil, err
	}
	return merged, nil
}

// CreateSchool creates a school under an active organization and
// write-throughs the parent link into the authz engine so org-level
// inheritance applies immediately.
func (s *Service) CreateSchool(ctx context.Context, req CreateSchoolRequest) (*models.School, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, apperr.Validation("display_name is required", nil)
	}

	org, err := s.repo.FindOrganizationByID(ctx, req.OrganizationID)
	if err != nil {
		if err == ErrOrganizationNotFound {
			return nil, errOrganizationNotFound(req.OrganizationID)
		}
		return nil, err
	}
	if !org.IsActive {
		return nil, apperr.Validation("organization is not active", nil)
	}

	school := &models.School{OrganizationID: req.OrganizationID, DisplayName: name, IsActive: true}
	if err := s.repo.CreateSchool(ctx, school); err != nil {
		return nil, err
	}

	s.engine.SetSchoolOrg(school.ID, req.OrganizationID)
	return school, nil
}

// GetSchool fetches a school by ID.
func (s *Service) GetSchool(ctx context.Context, id uint) (*models.School, error) {
	school, err := s.repo.FindSchoolByID(ctx, id)
	if err != nil {
		if err == ErrSchoolNotFound {
			return nil, errSchoolNotFound(id)
		}
		return nil, err
	}
	return school, nil
}

// ListVisibleSchools returns every active school principal may read,
// including schools visible only through org-level inheritance.
func (s *Service) ListVisibleSchools(ctx context.Context, principalID uint) ([]models.School, error) {
	ids := parseDomainIDs(s.engine.VisibleDomains(principalID, authz.ResourceSchool, authz.ActionRead), authz.DomainKindSchool)
	schools, err := s.repo.ListSchoolsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return filterActiveSchools(schools), nil
}

// AddTeacherToSchool grants a teacher one or more school-scoped roles.
// If the teacher already has an active membership row for the school,
// the new roles are unioned into the existing set rather than
// replacing it (§4.2).
func (s *Service) AddTeacherToSchool(ctx context.Context, req AddTeacherToSchoolRequest) (*models.TeacherSchool, error) {
	if len(req.Roles) == 0 {
		return nil, errNoRolesProvided()
	}

	roles := make([]models.SchoolRole, 0, len(req.Roles))
	for _, r := range req.Roles {
		role := models.SchoolRole(r)
		if !role.IsValid() {
			return nil, errInvalidSchoolRole(r)
		}
		roles = append(roles, role)
	}

	if _, err := s.repo.FindSchoolByID(ctx, req.SchoolID); err != nil {
		if err == ErrSchoolNotFound {
			return nil, errSchoolNotFound(req.SchoolID)
		}
		return nil, err
	}

	membership, err := s.repo.FindTeacherSchool(ctx, req.TeacherID, req.SchoolID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		membership = &models.TeacherSchool{TeacherID: req.TeacherID, SchoolID: req.SchoolID, IsActive: true}
		membership.SetRoleSet(roles)
	} else {
		membership.IsActive = true
		membership.UnionRoles(roles)
	}

	if err := membership.Validate(); err != nil {
		return nil, apperr.Validation(err.Error(), nil)
	}
	if err := s.repo.UpsertTeacherSchool(ctx, membership); err != nil {
		return nil, err
	}

	domain := authz.SchoolDomain(req.SchoolID)
	for _, r := range roles {
		authzRole, ok := schoolRoleToAuthz(r)
		if !ok {
			continue
		}
		if err := s.engine.Grant(req.TeacherID, authzRole, domain); err != nil {
			return nil, err
		}
	}

	return membership, nil
}

// RevokeTeacherFromSchool removes a teacher's school-scoped roles,
// deactivating the membership row and revoking the matching authz grants.
func (s *Service) RevokeTeacherFromSchool(ctx context.Context, teacherID, schoolID uint) error {
	membership, err := s.repo.FindTeacherSchool(ctx, teacherID, schoolID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.IsActive {
		return nil
	}

	roles := membership.RoleSet()
	membership.IsActive = false
	if err := s.repo.UpsertTeacherSchool(ctx, membership); err != nil {
		return err
	}

	domain := authz.SchoolDomain(schoolID)
	for _, r := range roles {
		if authzRole, ok := schoolRoleToAuthz(r); ok {
			s.engine.Revoke(teacherID, authzRole, domain)
		}
	}
	return nil
}

// Rehydrate loads every active membership row and school-organization
// link from the database into engine, intended to run once at startup
// before the HTTP server accepts requests.
func (s *Service) Rehydrate(ctx context.Context) error {
	teacherOrgs, err := s.repo.ListActiveTeacherOrganizations(ctx)
	if err != nil {
		return err
	}
	for _, m := range teacherOrgs {
		if role, ok := orgRoleToAuthz(m.Role); ok {
			_ = s.engine.Grant(m.TeacherID, role, authz.OrgDomain(m.OrganizationID))
		}
	}

	teacherSchools, err := s.repo.ListActiveTeacherSchools(ctx)
	if err != nil {
		return err
	}
	for _, m := range teacherSchools {
		for _, r := range m.RoleSet() {
			if role, ok := schoolRoleToAuthz(r); ok {
				_ = s.engine.Grant(m.TeacherID, role, authz.SchoolDomain(m.SchoolID))
			}
		}
	}

	// The active schools of every organization that has an active
	// org-level membership row link to that organization, needed for
	// org-level inheritance even where no teacher has an explicit
	// school-scoped role. Schools of an organization with no active
	// org-level membership row are not linked.
	for _, m := range teacherOrgs {
		schools, err := s.repo.ListSchoolsByOrganization(ctx, m.OrganizationID)
		if err != nil {
			return err
		}
		for _, sc := range schools {
			if sc.IsActive {
				s.engine.SetSchoolOrg(sc.ID, m.OrganizationID)
			}
		}
	}
	return nil
}

// revokeAllGrantsForOrganization revokes the authz grants implied by
// teacherOrgs/teacherSchools, the rows DeactivateOrganizationCascade
// captured as active immediately before flipping is_active. Re-querying
// "is_active = true" here would find nothing — the rows are already
// inactive by the time this runs — so the caller passes the
// pre-deactivation snapshot instead.
func (s *Service) revokeAllGrantsForOrganization(organizationID uint, teacherOrgs []models.TeacherOrganization, teacherSchools []models.TeacherSchool) {
	orgDomain := authz.OrgDomain(organizationID)
	for _, m := range teacherOrgs {
		if role, ok := orgRoleToAuthz(m.Role); ok {
			s.engine.Revoke(m.TeacherID, role, orgDomain)
		}
	}

	for _, m := range teacherSchools {
		domain := authz.SchoolDomain(m.SchoolID)
		for _, r := range m.RoleSet() {
			if role, ok := schoolRoleToAuthz(r); ok {
				s.engine.Revoke(m.TeacherID, role, domain)
			}
		}
	}
}

func orgRoleToAuthz(r models.OrgRole) (authz.Role, bool) {
	switch r {
	case models.OrgRoleOwner:
		return authz.RoleOrgOwner, true
	case models.OrgRoleAdmin:
		return authz.RoleOrgAdmin, true
	default:
		return "", false
	}
}

func schoolRoleToAuthz(r models.SchoolRole) (authz.Role, bool) {
	switch r {
	case models.SchoolRoleAdmin:
		return authz.RoleSchoolAdmin, true
	case models.SchoolRoleTeacher:
		return authz.RoleTeacher, true
	default:
		return "", false
	}
}

func parseDomainIDs(domains []string, wantKind authz.DomainKind) []uint {
	ids := make([]uint, 0, len(domains))
	for _, d := range domains {
		kind, id, ok := authz.ParseDomain(d)
		if !ok || kind != wantKind {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func filterActiveOrgs(orgs []models.Organization) []models.Organization {
	active := orgs[:0]
	for _, o := range orgs {
		if o.IsActive {
			active = append(active, o)
		}
	}
	return active
}

func filterActiveSchools(schools []models.School) []models.School {
	active := schools[:0]
	for _, sc := range schools {
		if sc.IsActive {
			active = append(active, sc)
		}
	}
	return active
}
