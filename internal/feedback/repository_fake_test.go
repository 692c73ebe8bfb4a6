package feedback

import (
	"context"

	"github.com/duotopia/backend/internal/domain/models"
)

type fakeRepository struct {
	itemProgress      map[uint]*models.StudentItemProgress
	studentAssignment map[uint]*models.StudentAssignment
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		itemProgress:      make(map[uint]*models.StudentItemProgress),
		studentAssignment: make(map[uint]*models.StudentAssignment),
	}
}

func (f *fakeRepository) FindItemProgressByID(_ context.Context, id uint) (*models.StudentItemProgress, error) {
	p, ok := f.itemProgress[id]
	if !ok {
		return nil, ErrItemProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepository) UpdateItemFeedback(_ context.Context, id uint, feedback string) error {
	p, ok := f.itemProgress[id]
	if !ok {
		return ErrItemProgressNotFound
	}
	p.ItemFeedback = &feedback
	return nil
}

func (f *fakeRepository) FindStudentAssignmentByID(_ context.Context, id uint) (*models.StudentAssignment, error) {
	sa, ok := f.studentAssignment[id]
	if !ok {
		return nil, ErrStudentAssignmentNotFound
	}
	cp := *sa
	return &cp, nil
}

func (f *fakeRepository) UpdateAssignmentFeedback(_ context.Context, id uint, feedback string) error {
	sa, ok := f.studentAssignment[id]
	if !ok {
		return ErrStudentAssignmentNotFound
	}
	sa.Feedback = &feedback
	return nil
}
