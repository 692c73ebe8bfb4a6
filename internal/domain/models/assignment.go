package models

import (
	"errors"
	"time"
)

// Assignment is issued by a teacher to a classroom and references an
// ordered list of Content (via AssignmentContent).
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeacherID   uint      `gorm:"index;not null" json:"teacher_id"`
	ClassroomID uint      `gorm:"index;not null" json:"classroom_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Teacher   Teacher             `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Classroom Classroom           `gorm:"foreignKey:ClassroomID" json:"classroom,omitempty"`
	Contents  []AssignmentContent `gorm:"foreignKey:AssignmentID" json:"contents,omitempty"`
}

// TableName specifies the table name for Assignment.
func (Assignment) TableName() string {
	return "assignments"
}

// Validate validates the assignment data.
func (a *Assignment) Validate() error {
	if a.TeacherID == 0 {
		return errors.New("teacher_id is required")
	}
	if a.ClassroomID == 0 {
		return errors.New("classroom_id is required")
	}
	if a.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// AssignmentContent links an Assignment to a Content at a fixed order
// position (the "ordered list of Content" in an Assignment).
type AssignmentContent struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	AssignmentID uint `gorm:"index:idx_assignment_content,unique;not null" json:"assignment_id"`
	ContentID    uint `gorm:"index:idx_assignment_content,unique;not null" json:"content_id"`
	OrderIndex   int  `gorm:"not null" json:"order_index"`

	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"-"`
	Content    Content    `gorm:"foreignKey:ContentID" json:"content,omitempty"`
}

// TableName specifies the table name for AssignmentContent.
func (AssignmentContent) TableName() string {
	return "assignment_contents"
}

// Validate validates the link row.
func (ac *AssignmentContent) Validate() error {
	if ac.AssignmentID == 0 {
		return errors.New("assignment_id is required")
	}
	if ac.ContentID == 0 {
		return errors.New("content_id is required")
	}
	if ac.OrderIndex < 0 {
		return errors.New("order_index must be non-negative")
	}
	return nil
}
