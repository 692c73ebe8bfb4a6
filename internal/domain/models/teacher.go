package models

import (
	"errors"
	"strings"
	"time"
)

// Teacher represents a teacher account. Teachers hold roles in organizations
// and schools via TeacherOrganization and TeacherSchool link rows; the
// Teacher row itself carries no role.
type Teacher struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName    string    `gorm:"type:varchar(255);not null" json:"display_name"`
	CredentialHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organizations []TeacherOrganization `gorm:"foreignKey:TeacherID" json:"organizations,omitempty"`
	Schools       []TeacherSchool       `gorm:"foreignKey:TeacherID" json:"schools,omitempty"`
}

// TableName specifies the table name for Teacher.
func (Teacher) TableName() string {
	return "teachers"
}

// Validate validates the teacher data.
func (t *Teacher) Validate() error {
	if strings.TrimSpace(t.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(t.Email, "@") {
		return errors.New("email is invalid")
	}
	if strings.TrimSpace(t.DisplayName) == "" {
		return errors.New("display_name is required")
	}
	if strings.TrimSpace(t.CredentialHash) == "" {
		return errors.New("credential hash is required")
	}
	return nil
}

// Deactivate deactivates the teacher account.
func (t *Teacher) Deactivate() {
	t.IsActive = false
}

// Activate activates the teacher account.
func (t *Teacher) Activate() {
	t.IsActive = true
}
