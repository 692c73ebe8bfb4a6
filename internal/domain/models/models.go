// Package models contains all domain models for the Duotopia backend core.
// These models represent the entities and relationships described in
// the authorization, speech-assessment, and batch-grading subsystems.
package models

import "errors"

// This file serves as the package documentation.
// All models are defined in their respective files:
//
// Identity:
//   - teacher.go: Teacher account
//   - student.go: Student account
//
// Organization graph:
//   - organization.go: Organization (top-level tenant)
//   - school.go: School (owned by exactly one organization)
//   - membership.go: TeacherOrganization, TeacherSchool, ClassroomSchool link rows
//
// Assignment graph:
//   - classroom.go: Classroom
//   - content.go: Content, ContentItem
//   - assignment.go: Assignment
//   - progress.go: StudentAssignment, StudentContentProgress, StudentItemProgress
//
// Speech-assessment bookkeeping:
//   - assessment.go: AssessmentAttempt, QuotaLedger
//
// Notification:
//   - notification.go: Notification, FCMToken

// Common validation errors
var (
	ErrRequiredFieldMissing = errors.New("required field is missing")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrDuplicateEntry       = errors.New("duplicate entry")
)

// AllModels returns all models for GORM auto-migration.
// This ensures all models are registered in a single place.
func AllModels() []interface{} {
	return []interface{}{
		// Identity
		&Teacher{},
		&Student{},

		// Organization graph
		&Organization{},
		&School{},
		&TeacherOrganization{},
		&TeacherSchool{},
		&ClassroomSchool{},

		// Assignment graph
		&Classroom{},
		&Content{},
		&ContentItem{},
		&Assignment{},
		&AssignmentContent{},
		&StudentAssignment{},
		&StudentContentProgress{},
		&StudentItemProgress{},

		// Speech-assessment bookkeeping
		&AssessmentAttempt{},
		&QuotaLedger{},

		// Notification
		&Notification{},
		&FCMToken{},
	}
}

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// DefaultPagination returns default pagination settings.
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Offset calculates the offset for database queries.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}
