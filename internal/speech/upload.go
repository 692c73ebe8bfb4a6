package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/duotopia/backend/internal/domain/models"
)

// Blobstore is the subset of internal/shared/blobstore.Client the
// uploader needs, narrowed to an interface so tests can fake it.
type Blobstore interface {
	PutAudio(ctx context.Context, analysisID string, body io.Reader, size int64, contentType string) (string, error)
}

// Uploader implements upload_analysis (§4.3.c): idempotent on
// AnalysisID, atomic persistence of the AssessmentAttempt + scored
// StudentItemProgress + QuotaLedger row.
type Uploader struct {
	repo  Repository
	blobs Blobstore
}

// NewUploader constructs an Uploader.
func NewUploader(repo Repository, blobs Blobstore) *Uploader {
	return &Uploader{repo: repo, blobs: blobs}
}

// UploadAnalysis persists one client-reported assessment result.
// Re-submission with an already-seen AnalysisID returns success
// without re-persisting or re-debiting quota (the idempotency
// guarantee client retries depend on). Teacher preview-mode calls
// (ProgressID nil) return success without persisting anything.
func (u *Uploader) UploadAnalysis(ctx context.Context, req UploadAnalysisRequest) (*UploadAnalysisResult, error) {
	if req.AnalysisID == "" {
		return nil, errAnalysisIDRequired()
	}
	if req.AnalysisJSON == "" {
		return nil, errAnalysisJSONRequired()
	}
	if len(req.Audio) == 0 {
		return nil, errAudioRequired()
	}

	if existing, err := u.repo.FindAttemptByAnalysisID(ctx, req.AnalysisID); err != nil {
		return nil, err
	} else if existing != nil {
		return &UploadAnalysisResult{Persisted: true, Deduped: true}, nil
	}

	if req.Principal.Kind == PrincipalTeacher && req.ProgressID == nil {
		return &UploadAnalysisResult{Persisted: false}, nil
	}

	var progress *models.StudentItemProgress
	if req.ProgressID != nil {
		var err error
		progress, err = u.repo.FindItemProgressByID(ctx, *req.ProgressID)
		if err != nil {
			return nil, err
		}
	}

	recordingURL := ""
	if len(req.Audio) > 0 && u.blobs != nil {
		key, err := u.blobs.PutAudio(ctx, req.AnalysisID, bytes.NewReader(req.Audio), int64(len(req.Audio)), "audio/webm")
		if err != nil {
			return nil, err
		}
		recordingURL = key
	}

	var blob ScoreBlob
	parseErr := json.Unmarshal([]byte(req.AnalysisJSON), &blob)

	if progress != nil {
		if recordingURL != "" {
			progress.RecordingURL = &recordingURL
		}
		// A malformed score blob is persisted as recording_url set,
		// scores null (§4.3.c "Score blob parsing failures are
		// persisted as recording_url set, scores null", I4).
		if parseErr == nil {
			at := now()
			progress.ApplyScores(blob.Accuracy, blob.Fluency, blob.Pronunciation, blob.Completeness, at)
			if text := strings.TrimSpace(blob.RecognizedText); text != "" {
				progress.Transcription = &text
			}
			raw := req.AnalysisJSON
			progress.RawAssessment = &raw
		}
	}

	attempt := &models.AssessmentAttempt{
		AnalysisID: req.AnalysisID,
		LatencyMS:  req.LatencyMS,
		RawBlob:    req.AnalysisJSON,
	}
	if progress != nil {
		attempt.StudentItemProgressID = progress.ID
	}

	var teacherID *uint
	if req.Principal.Kind == PrincipalTeacher {
		id := req.Principal.ID
		teacherID = &id
	}
	ledger := &models.QuotaLedger{
		TeacherID:  teacherID,
		Reason:     models.QuotaReasonUploadAccepted,
		AnalysisID: req.AnalysisID,
		Delta:      1,
	}

	if err := u.repo.PersistUpload(ctx, attempt, progress, ledger); err != nil {
		return nil, err
	}

	return &UploadAnalysisResult{Persisted: true}, nil
}
