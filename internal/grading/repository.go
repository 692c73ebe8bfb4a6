// Package grading implements the Batch Auto-Grading Engine (C3,
// §4.4): discovers work left by the speech-assessment pipeline,
// dispatches the external provider server-side on the shared
// identity, synthesizes per-item and per-assignment feedback, and
// persists each student's results in one atomic transaction so a
// single student's failure never rolls back another's.
package grading

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/duotopia/backend/internal/domain/models"
)

// Repository is the persistence contract batch grading needs.
type Repository interface {
	FindAssignmentByID(ctx context.Context, id uint) (*models.Assignment, error)
	ListStudentAssignments(ctx context.Context, assignmentID uint) ([]models.StudentAssignment, error)
	ListItemProgress(ctx context.Context, studentAssignmentID uint) ([]models.StudentItemProgress, error)

	// PersistStudentResult commits every StudentItemProgress update and
	// AssessmentAttempt insert for one student plus the
	// StudentAssignment.feedback update, all in one transaction (§4.4
	// "Atomicity ... Per-student persistence is one transaction").
	PersistStudentResult(ctx context.Context, studentAssignment *models.StudentAssignment, items []*models.StudentItemProgress, attempts []*models.AssessmentAttempt) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAssignmentByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).Preload("Classroom.SchoolLink").First(&assignment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAssignmentNotFound()
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) ListStudentAssignments(ctx context.Context, assignmentID uint) ([]models.StudentAssignment, error) {
	var rows []models.StudentAssignment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListItemProgress(ctx context.Context, studentAssignmentID uint) ([]models.StudentItemProgress, error) {
	var rows []models.StudentItemProgress
	err := r.db.WithContext(ctx).
		Preload("ContentItem").
		Where("student_assignment_id = ?", studentAssignmentID).
		Find(&rows).Error
	return rows, err
}

func (r *repository) PersistStudentResult(ctx context.Context, studentAssignment *models.StudentAssignment, items []*models.StudentItemProgress, attempts []*models.AssessmentAttempt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Save(item).Error; err != nil {
				return err
			}
		}
		for _, attempt := range attempts {
			if err := tx.Create(attempt).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.StudentAssignment{}).
			Where("id = ?", studentAssignment.ID).
			Update("feedback", studentAssignment.Feedback).Error
	})
}
