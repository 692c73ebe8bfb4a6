// Package feedback implements the teacher feedback-override operation
// (D.3): replacing the system-synthesized per-item or per-assignment
// feedback text (§4.4 band synthesis) with a teacher's own wording.
package feedback

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/duotopia/backend/internal/domain/models"
)

var (
	ErrItemProgressNotFound      = errors.New("student item progress not found")
	ErrStudentAssignmentNotFound = errors.New("student assignment not found")
)

// Repository is the persistence contract for feedback overrides.
type Repository interface {
	FindItemProgressByID(ctx context.Context, id uint) (*models.StudentItemProgress, error)
	UpdateItemFeedback(ctx context.Context, id uint, feedback string) error

	FindStudentAssignmentByID(ctx context.Context, id uint) (*models.StudentAssignment, error)
	UpdateAssignmentFeedback(ctx context.Context, id uint, feedback string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindItemProgressByID(ctx context.Context, id uint) (*models.StudentItemProgress, error) {
	var progress models.StudentItemProgress
	err := r.db.WithContext(ctx).
		Preload("StudentAssignment.Assignment.Classroom.SchoolLink").
		First(&progress, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *repository) UpdateItemFeedback(ctx context.Context, id uint, feedback string) error {
	return r.db.WithContext(ctx).
		Model(&models.StudentItemProgress{}).
		Where("id = ?", id).
		Update("item_feedback", feedback).Error
}

func (r *repository) FindStudentAssignmentByID(ctx context.Context, id uint) (*models.StudentAssignment, error) {
	var sa models.StudentAssignment
	err := r.db.WithContext(ctx).
		Preload("Assignment.Classroom.SchoolLink").
		First(&sa, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

func (r *repository) UpdateAssignmentFeedback(ctx context.Context, id uint, feedback string) error {
	return r.db.WithContext(ctx).
		Model(&models.StudentAssignment{}).
		Where("id = ?", id).
		Update("feedback", feedback).Error
}
