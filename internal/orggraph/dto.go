package orggraph

// CreateOrganizationRequest is the input to CreateOrganization. The
// caller becomes the organization's sole org_owner.
type CreateOrganizationRequest struct {
	DisplayName  string
	OwnerID      uint
	InitSettings map[string]interface{}
}

// CreateSchoolRequest is the input to CreateSchool.
type CreateSchoolRequest struct {
	OrganizationID uint
	DisplayName    string
}

// AddTeacherToSchoolRequest is the input to AddTeacherToSchool. Roles
// are unioned into any existing membership, never replaced (§4.2).
type AddTeacherToSchoolRequest struct {
	SchoolID  uint
	TeacherID uint
	Roles     []string
}
