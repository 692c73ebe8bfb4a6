// Package speech implements the Speech-Assessment Pipeline (C2): a
// scoped-credential issuer the browser uses to call the external
// provider directly, and a result uploader that durably and
// idempotently persists what the client reports back. Direct
// assessment itself (§4.3.b) happens client-side against the
// provider and is not implemented here — only its contract shapes
// this package's types.
package speech

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/duotopia/backend/internal/domain/models"
)

// Repository defines persistence operations for the upload path.
type Repository interface {
	FindAttemptByAnalysisID(ctx context.Context, analysisID string) (*models.AssessmentAttempt, error)
	FindItemProgressByID(ctx context.Context, id uint) (*models.StudentItemProgress, error)
	// PersistUpload writes the AssessmentAttempt, optionally applies
	// scores to a StudentItemProgress row, and appends a QuotaLedger
	// entry, all in one transaction (§4.3.c "Persistence (atomic)").
	PersistUpload(ctx context.Context, attempt *models.AssessmentAttempt, progress *models.StudentItemProgress, ledger *models.QuotaLedger) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAttemptByAnalysisID(ctx context.Context, analysisID string) (*models.AssessmentAttempt, error) {
	var attempt models.AssessmentAttempt
	err := r.db.WithContext(ctx).Where("analysis_id = ?", analysisID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *repository) FindItemProgressByID(ctx context.Context, id uint) (*models.StudentItemProgress, error) {
	var progress models.StudentItemProgress
	err := r.db.WithContext(ctx).First(&progress, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProgressNotFound()
		}
		return nil, err
	}
	return &progress, nil
}

func (r *repository) PersistUpload(ctx context.Context, attempt *models.AssessmentAttempt, progress *models.StudentItemProgress, ledger *models.QuotaLedger) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		if progress != nil {
			if err := tx.Save(progress).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(ledger).Error; err != nil {
			return err
		}
		return nil
	})
}

// now is overridable in tests; production code always uses time.Now.
var now = time.Now
