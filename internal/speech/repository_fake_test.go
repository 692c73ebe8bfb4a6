package speech

import (
	"context"

	"github.com/duotopia/backend/internal/domain/models"
)

type fakeRepository struct {
	attempts  map[string]*models.AssessmentAttempt
	progress  map[uint]*models.StudentItemProgress
	ledgers   []*models.QuotaLedger
	nextAttID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		attempts: make(map[string]*models.AssessmentAttempt),
		progress: make(map[uint]*models.StudentItemProgress),
	}
}

func (r *fakeRepository) FindAttemptByAnalysisID(ctx context.Context, analysisID string) (*models.AssessmentAttempt, error) {
	if attempt, ok := r.attempts[analysisID]; ok {
		return attempt, nil
	}
	return nil, nil
}

func (r *fakeRepository) FindItemProgressByID(ctx context.Context, id uint) (*models.StudentItemProgress, error) {
	progress, ok := r.progress[id]
	if !ok {
		return nil, errProgressNotFound()
	}
	return progress, nil
}

func (r *fakeRepository) PersistUpload(ctx context.Context, attempt *models.AssessmentAttempt, progress *models.StudentItemProgress, ledger *models.QuotaLedger) error {
	r.nextAttID++
	attempt.ID = r.nextAttID
	r.attempts[attempt.AnalysisID] = attempt

	if progress != nil {
		r.progress[progress.ID] = progress
	}

	r.ledgers = append(r.ledgers, ledger)
	return nil
}
