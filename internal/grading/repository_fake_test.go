package grading

import (
	"context"

	"github.com/duotopia/backend/internal/domain/models"
)

type fakeRepository struct {
	assignment         *models.Assignment
	studentAssignments []models.StudentAssignment
	items              map[uint][]models.StudentItemProgress // keyed by StudentAssignmentID

	persisted []persistedCall
	failFor   map[uint]bool // StudentAssignmentID -> force PersistStudentResult to fail
}

type persistedCall struct {
	studentAssignmentID uint
	items                []*models.StudentItemProgress
	attempts             []*models.AssessmentAttempt
	feedback             *string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		items:   make(map[uint][]models.StudentItemProgress),
		failFor: make(map[uint]bool),
	}
}

func (r *fakeRepository) FindAssignmentByID(ctx context.Context, id uint) (*models.Assignment, error) {
	if r.assignment == nil {
		return nil, errAssignmentNotFound()
	}
	return r.assignment, nil
}

func (r *fakeRepository) ListStudentAssignments(ctx context.Context, assignmentID uint) ([]models.StudentAssignment, error) {
	return r.studentAssignments, nil
}

func (r *fakeRepository) ListItemProgress(ctx context.Context, studentAssignmentID uint) ([]models.StudentItemProgress, error) {
	return r.items[studentAssignmentID], nil
}

func (r *fakeRepository) PersistStudentResult(ctx context.Context, studentAssignment *models.StudentAssignment, items []*models.StudentItemProgress, attempts []*models.AssessmentAttempt) error {
	if r.failFor[studentAssignment.ID] {
		return errPersistFailed
	}
	r.persisted = append(r.persisted, persistedCall{
		studentAssignmentID: studentAssignment.ID,
		items:                items,
		attempts:             attempts,
		feedback:             studentAssignment.Feedback,
	})
	return nil
}

var errPersistFailed = &fakeError{"persist failed"}

type fakeError struct{ msg string }

func (e *fakeError) Error() string { return e.msg }

type fakeGate struct {
	assignment *models.Assignment
	err        error
}

func (g *fakeGate) AuthorizeBatchGrade(ctx context.Context, principalID, assignmentID uint) (*models.Assignment, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.assignment, nil
}

type fakeAudioStore struct {
	audio map[string][]byte
}

func newFakeAudioStore() *fakeAudioStore {
	return &fakeAudioStore{audio: make(map[string][]byte)}
}

func (a *fakeAudioStore) GetAudio(ctx context.Context, key string) ([]byte, error) {
	data, ok := a.audio[key]
	if !ok {
		return []byte("fallback-audio"), nil
	}
	return data, nil
}
