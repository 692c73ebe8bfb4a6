package models

import (
	"errors"
	"strings"
	"time"
)

// OrgRole is a role a teacher can hold within an organization.
type OrgRole string

const (
	OrgRoleOwner OrgRole = "org_owner"
	OrgRoleAdmin OrgRole = "org_admin"
)

// IsValid reports whether r is one of the closed set of org roles.
func (r OrgRole) IsValid() bool {
	switch r {
	case OrgRoleOwner, OrgRoleAdmin:
		return true
	}
	return false
}

// SchoolRole is a role a teacher can hold within a school.
type SchoolRole string

const (
	SchoolRoleAdmin   SchoolRole = "school_admin"
	SchoolRoleTeacher SchoolRole = "teacher"
)

// IsValid reports whether r is one of the closed set of school roles.
func (r SchoolRole) IsValid() bool {
	switch r {
	case SchoolRoleAdmin, SchoolRoleTeacher:
		return true
	}
	return false
}

// TeacherOrganization links a Teacher to an Organization with a role.
// Invariant I5: per (organization id, active=true), at most one row
// with role=org_owner. Enforced by internal/orggraph inside a
// transaction, not by a database constraint, since it is conditional
// on active=true.
type TeacherOrganization struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TeacherID      uint      `gorm:"index:idx_teacher_org,unique;not null" json:"teacher_id"`
	OrganizationID uint      `gorm:"index:idx_teacher_org,unique;not null" json:"organization_id"`
	Role           OrgRole   `gorm:"type:varchar(20);not null" json:"role"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Teacher      Teacher      `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// TableName specifies the table name for TeacherOrganization.
func (TeacherOrganization) TableName() string {
	return "teacher_organizations"
}

// Validate validates the membership row.
func (m *TeacherOrganization) Validate() error {
	if m.TeacherID == 0 {
		return errors.New("teacher_id is required")
	}
	if m.OrganizationID == 0 {
		return errors.New("organization_id is required")
	}
	if !m.Role.IsValid() {
		return errors.New("role is invalid")
	}
	return nil
}

// TeacherSchool links a Teacher to a School with a non-empty set of
// roles drawn from {school_admin, teacher}.
type TeacherSchool struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeacherID uint      `gorm:"index:idx_teacher_school,unique;not null" json:"teacher_id"`
	SchoolID  uint      `gorm:"index:idx_teacher_school,unique;not null" json:"school_id"`
	Roles     string    `gorm:"type:varchar(64);not null" json:"-"` // comma-joined SchoolRole values
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Teacher Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	School  School  `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}

// TableName specifies the table name for TeacherSchool.
func (TeacherSchool) TableName() string {
	return "teacher_schools"
}

// Validate validates the membership row.
func (m *TeacherSchool) Validate() error {
	if m.TeacherID == 0 {
		return errors.New("teacher_id is required")
	}
	if m.SchoolID == 0 {
		return errors.New("school_id is required")
	}
	roles := m.RoleSet()
	if len(roles) == 0 {
		return errors.New("roles must be non-empty")
	}
	for _, r := range roles {
		if !r.IsValid() {
			return errors.New("roles contains an invalid role")
		}
	}
	return nil
}

// RoleSet decodes the comma-joined Roles column.
func (m *TeacherSchool) RoleSet() []SchoolRole {
	if strings.TrimSpace(m.Roles) == "" {
		return nil
	}
	parts := strings.Split(m.Roles, ",")
	roles := make([]SchoolRole, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		roles = append(roles, SchoolRole(p))
	}
	return roles
}

// SetRoleSet encodes roles into the comma-joined Roles column, deduplicated.
func (m *TeacherSchool) SetRoleSet(roles []SchoolRole) {
	seen := map[SchoolRole]bool{}
	ordered := make([]string, 0, len(roles))
	for _, r := range roles {
		if seen[r] {
			continue
		}
		seen[r] = true
		ordered = append(ordered, string(r))
	}
	m.Roles = strings.Join(ordered, ",")
}

// HasRole reports whether m grants the given role.
func (m *TeacherSchool) HasRole(role SchoolRole) bool {
	for _, r := range m.RoleSet() {
		if r == role {
			return true
		}
	}
	return false
}

// UnionRoles merges roles into m's existing role set (union semantics,
// used by add_teacher_to_school when an active row already exists).
func (m *TeacherSchool) UnionRoles(roles []SchoolRole) {
	m.SetRoleSet(append(m.RoleSet(), roles...))
}

// ClassroomSchool links a Classroom to a School. Invariant: a classroom
// links to at most one school, enforced by the unique index on
// ClassroomID.
type ClassroomSchool struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClassroomID uint      `gorm:"uniqueIndex;not null" json:"classroom_id"`
	SchoolID    uint      `gorm:"index;not null" json:"school_id"`
	CreatedAt   time.Time `json:"created_at"`

	Classroom Classroom `gorm:"foreignKey:ClassroomID" json:"classroom,omitempty"`
	School    School    `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}

// TableName specifies the table name for ClassroomSchool.
func (ClassroomSchool) TableName() string {
	return "classroom_schools"
}

// Validate validates the link row.
func (m *ClassroomSchool) Validate() error {
	if m.ClassroomID == 0 {
		return errors.New("classroom_id is required")
	}
	if m.SchoolID == 0 {
		return errors.New("school_id is required")
	}
	return nil
}
