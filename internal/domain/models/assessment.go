package models

import (
	"errors"
	"time"
)

// AssessmentAttempt is the pipeline bookkeeping row for one scoring
// round. AnalysisID is the idempotency anchor (§4.3.c): a unique index
// on analysis_id means a retried upload observes the existing row and
// returns success without re-persisting or re-debiting quota.
type AssessmentAttempt struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	StudentItemProgressID uint     `gorm:"index;not null" json:"student_item_progress_id"`
	AnalysisID           string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"analysis_id"`
	LatencyMS            int       `json:"latency_ms"`
	RawBlob              string    `gorm:"type:jsonb" json:"-"`
	CreatedAt            time.Time `json:"created_at"`

	StudentItemProgress StudentItemProgress `gorm:"foreignKey:StudentItemProgressID" json:"-"`
}

// TableName specifies the table name for AssessmentAttempt.
func (AssessmentAttempt) TableName() string {
	return "assessment_attempts"
}

// Validate validates the attempt row.
func (a *AssessmentAttempt) Validate() error {
	if a.StudentItemProgressID == 0 {
		return errors.New("student_item_progress_id is required")
	}
	if a.AnalysisID == "" {
		return errors.New("analysis_id is required")
	}
	if a.LatencyMS < 0 {
		return errors.New("latency_ms must be non-negative")
	}
	return nil
}

// QuotaLedgerReason enumerates why a quota delta was recorded.
type QuotaLedgerReason string

const (
	QuotaReasonCredentialIssued QuotaLedgerReason = "credential_issued"
	QuotaReasonUploadAccepted   QuotaLedgerReason = "upload_accepted"
)

// QuotaLedger records a quota delta, keyed by analysis_id so retried
// writes (same analysis_id) never double-debit (§4.3.c, §5).
type QuotaLedger struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	TeacherID  *uint             `gorm:"index" json:"teacher_id"`
	Reason     QuotaLedgerReason `gorm:"type:varchar(30);not null" json:"reason"`
	AnalysisID string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"analysis_id"`
	Delta      int               `gorm:"not null" json:"delta"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TableName specifies the table name for QuotaLedger.
func (QuotaLedger) TableName() string {
	return "quota_ledgers"
}

// Validate validates the ledger row.
func (q *QuotaLedger) Validate() error {
	if q.AnalysisID == "" {
		return errors.New("analysis_id is required")
	}
	if q.Delta == 0 {
		return errors.New("delta must be non-zero")
	}
	return nil
}
