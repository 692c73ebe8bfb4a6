package models

import (
	"errors"
	"time"
)

// Classroom belongs to exactly one owning teacher and, via
// ClassroomSchool, to at most one school.
type Classroom struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OwningTeacherID uint     `gorm:"index;not null" json:"owning_teacher_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	OwningTeacher Teacher          `gorm:"foreignKey:OwningTeacherID" json:"owning_teacher,omitempty"`
	Students      []Student        `gorm:"foreignKey:ClassroomID" json:"students,omitempty"`
	SchoolLink    *ClassroomSchool `gorm:"foreignKey:ClassroomID" json:"school_link,omitempty"`
}

// TableName specifies the table name for Classroom.
func (Classroom) TableName() string {
	return "classrooms"
}

// Validate validates the classroom data.
func (c *Classroom) Validate() error {
	if c.OwningTeacherID == 0 {
		return errors.New("owning_teacher_id is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// Deactivate soft-deletes the classroom.
func (c *Classroom) Deactivate() {
	c.IsActive = false
}

// Activate re-activates the classroom.
func (c *Classroom) Activate() {
	c.IsActive = true
}
