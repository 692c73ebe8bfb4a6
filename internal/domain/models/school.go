package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// School is owned by exactly one Organization (I1: a school belongs to
// exactly one active organization).
type School struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"index;not null" json:"organization_id"`
	DisplayName    string    `gorm:"type:varchar(255);not null" json:"display_name"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organization Organization      `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Teachers     []TeacherSchool   `gorm:"foreignKey:SchoolID" json:"teachers,omitempty"`
	Classrooms   []ClassroomSchool `gorm:"foreignKey:SchoolID" json:"classrooms,omitempty"`
}

// TableName specifies the table name for School.
func (School) TableName() string {
	return "schools"
}

// Validate validates the school data.
func (s *School) Validate() error {
	if s.OrganizationID == 0 {
		return errors.New("organization_id is required")
	}
	if strings.TrimSpace(s.DisplayName) == "" {
		return errors.New("display_name is required")
	}
	return nil
}

// Domain returns the school's authorization domain string, e.g. "school-42".
func (s *School) Domain() string {
	return fmt.Sprintf("school-%d", s.ID)
}

// Deactivate soft-deletes the school.
func (s *School) Deactivate() {
	s.IsActive = false
}

// Activate re-activates the school.
func (s *School) Activate() {
	s.IsActive = true
}
