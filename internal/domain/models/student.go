package models

import (
	"errors"
	"strings"
	"time"
)

// Student represents a student account, scoped to exactly one classroom.
type Student struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ClassroomID    uint      `gorm:"index;not null" json:"classroom_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	CredentialHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Classroom Classroom `gorm:"foreignKey:ClassroomID" json:"classroom,omitempty"`
}

// TableName specifies the table name for Student.
func (Student) TableName() string {
	return "students"
}

// Validate validates the student data.
func (s *Student) Validate() error {
	if s.ClassroomID == 0 {
		return errors.New("classroom_id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(s.CredentialHash) == "" {
		return errors.New("credential hash is required")
	}
	return nil
}

// Deactivate deactivates the student account.
func (s *Student) Deactivate() {
	s.IsActive = false
}

// Activate activates the student account.
func (s *Student) Activate() {
	s.IsActive = true
}
