package grading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/duotopia/backend/internal/domain/models"
	"github.com/duotopia/backend/internal/providers/assessment"
	"github.com/duotopia/backend/internal/shared/metrics"
)

// AssignmentGate authorizes batch_grade_assignment (§4.4 "Gate via C1
// ... domain=domain_of_assignment") without internal/grading needing
// to depend on internal/authz or internal/assignment's classroom
// ownership/domain resolution directly.
type AssignmentGate interface {
	AuthorizeBatchGrade(ctx context.Context, principalID, assignmentID uint) (*models.Assignment, error)
}

// AudioStore is the subset of internal/shared/blobstore.Client batch
// grading needs, narrowed to an interface so tests can fake it.
type AudioStore interface {
	GetAudio(ctx context.Context, key string) ([]byte, error)
}

// Notifier is notified once a batch grade run finishes, used to fan
// out the grading-complete push notification (D.4) without this
// package depending on internal/notify directly.
type Notifier interface {
	NotifyGradingComplete(ctx context.Context, teacherID, assignmentID uint, gradedCount, errorCount int) error
}

// ProgressReporter is notified as each student's grading resolves
// during a batch run, used to drive the live WebSocket progress feed
// (D.5) without this package depending on internal/progresshub.
type ProgressReporter interface {
	ReportStudentGraded(assignmentID, studentID uint, errored bool)
	ReportBatchComplete(assignmentID uint)
}

// Service implements the batch_grade_assignment entry point (§4.4).
type Service struct {
	repo        Repository
	gate        AssignmentGate
	provider    assessment.Provider
	audio       AudioStore
	notifier    Notifier
	progress    ProgressReporter
	poolSize    int
	itemTimeout time.Duration
}

// SetNotifier wires an optional Notifier; BatchGradeAssignment runs
// without notification if none is set.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetProgressReporter wires an optional ProgressReporter; batch
// grading runs silently if none is set.
func (s *Service) SetProgressReporter(p ProgressReporter) {
	s.progress = p
}

// NewService constructs a Service. poolSize and itemTimeoutSeconds
// come from config.WorkerConfig (defaults 8 and 30 per §4.4/§5 if
// zero is passed).
func NewService(repo Repository, gate AssignmentGate, provider assessment.Provider, audio AudioStore, poolSize, itemTimeoutSeconds int) *Service {
	if poolSize <= 0 {
		poolSize = 8
	}
	if itemTimeoutSeconds <= 0 {
		itemTimeoutSeconds = 30
	}
	return &Service{
		repo:        repo,
		gate:        gate,
		provider:    provider,
		audio:       audio,
		poolSize:    poolSize,
		itemTimeout: time.Duration(itemTimeoutSeconds) * time.Second,
	}
}

// assessedItem pairs one eligible StudentItemProgress row with its
// dispatch outcome (nil result on failure — scores stay null).
type assessedItem struct {
	item   *models.StudentItemProgress
	result *assessment.Result
}

// BatchGradeAssignment discovers eligible items across every student
// on assignmentID, dispatches assessment calls through a bounded
// worker pool, and commits each student's results independently so one
// student's failure never affects another's (§4.4).
func (s *Service) BatchGradeAssignment(ctx context.Context, principalID, assignmentID uint) ([]StudentResult, error) {
	start := time.Now()
	defer func() { metrics.BatchGradeDuration.Observe(time.Since(start).Seconds()) }()

	assignment, err := s.gate.AuthorizeBatchGrade(ctx, principalID, assignmentID)
	if err != nil {
		return nil, err
	}

	studentAssignments, err := s.repo.ListStudentAssignments(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}

	perStudentItems := make([][]models.StudentItemProgress, len(studentAssignments))
	for i, sa := range studentAssignments {
		items, err := s.repo.ListItemProgress(ctx, sa.ID)
		if err != nil {
			return nil, err
		}
		perStudentItems[i] = items
	}

	outcomes := s.dispatchAssessments(ctx, perStudentItems)

	results := make([]StudentResult, len(studentAssignments))
	for i := range studentAssignments {
		results[i] = s.gradeAndPersistStudent(ctx, &studentAssignments[i], perStudentItems[i], outcomes)
		if s.progress != nil {
			s.progress.ReportStudentGraded(assignment.ID, results[i].StudentID, results[i].Status == StudentStatusError)
		}
	}
	if s.progress != nil {
		s.progress.ReportBatchComplete(assignment.ID)
	}

	if s.notifier != nil {
		graded, errored := 0, 0
		for _, r := range results {
			if r.Status == StudentStatusError {
				errored++
			} else {
				graded++
			}
		}
		_ = s.notifier.NotifyGradingComplete(ctx, principalID, assignment.ID, graded, errored)
	}

	return results, nil
}

// dispatchAssessments runs the provider call for every eligible item
// across every student through a pool bounded at s.poolSize (§4.4
// "bounded worker pool ... Ordering within a student is preserved only
// for persistence commits, not for provider calls"). A per-item
// failure or timeout is swallowed here; it surfaces as a missing
// outcome, never an aborted batch.
func (s *Service) dispatchAssessments(ctx context.Context, perStudentItems [][]models.StudentItemProgress) map[uint]*assessment.Result {
	outcomes := make(map[uint]*assessment.Result)
	outcomeCh := make(chan assessedItem)
	done := make(chan struct{})

	go func() {
		for out := range outcomeCh {
			if out.result != nil {
				outcomes[out.item.ID] = out.result
			}
		}
		close(done)
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.poolSize)

	for _, items := range perStudentItems {
		for i := range items {
			item := items[i]
			if !item.IsEligibleForAssessment() {
				continue
			}
			group.Go(func() error {
				metrics.WorkerPoolInFlight.Inc()
				defer metrics.WorkerPoolInFlight.Dec()
				result := s.assessOne(groupCtx, &item)
				outcomeCh <- assessedItem{item: &item, result: result}
				return nil
			})
		}
	}

	_ = group.Wait()
	close(outcomeCh)
	<-done

	return outcomes
}

// assessOne fetches the item's stored audio and invokes the provider
// under a per-item 30s timeout (§4.4 "Timeout per item: 30 s. On
// timeout, treat as failure"). A nil return means the item's scores
// stay null; the caller never propagates this as an HTTP error.
func (s *Service) assessOne(ctx context.Context, item *models.StudentItemProgress) *assessment.Result {
	if item.RecordingURL == nil {
		return nil
	}

	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	audio, err := s.audio.GetAudio(itemCtx, *item.RecordingURL)
	if err != nil {
		return nil
	}

	result, err := s.provider.Assess(itemCtx, assessment.Request{
		ReferenceText: item.ContentItem.ReferenceText,
		Audio:         audio,
		ContentType:   "audio/webm",
	})
	if err != nil {
		return nil
	}
	return result
}

// gradeAndPersistStudent applies each item's outcome (if any), runs
// aggregation and feedback synthesis, and commits everything in one
// transaction. A transaction failure is reported as status=error
// rather than propagated (§4.4 "Per-student transaction failure:
// logged, student appears in the response with status=error").
func (s *Service) gradeAndPersistStudent(ctx context.Context, studentAssignment *models.StudentAssignment, items []models.StudentItemProgress, outcomes map[uint]*assessment.Result) StudentResult {
	itemPtrs := make([]*models.StudentItemProgress, len(items))
	var attempts []*models.AssessmentAttempt
	now := time.Now()

	for i := range items {
		itemPtrs[i] = &items[i]
		result, ok := outcomes[items[i].ID]
		if !ok {
			continue
		}

		items[i].ApplyScores(result.Score.Accuracy, result.Score.Fluency, result.Score.Pronunciation, result.Score.Completeness, now)
		items[i].RawAssessment = &result.RawJSON
		if result.RecognizedText != "" {
			items[i].Transcription = &result.RecognizedText
		}
		feedback := itemFeedback(result.Score.Accuracy, result.Score.Fluency, result.Score.Pronunciation, result.Score.Completeness)
		items[i].ItemFeedback = &feedback

		attempts = append(attempts, &models.AssessmentAttempt{
			StudentItemProgressID: items[i].ID,
			AnalysisID:            uuid.NewString(),
			LatencyMS:             int(result.LatencyMS),
			RawBlob:               result.RawJSON,
		})
	}

	agg := aggregate(items)
	summary := assignmentFeedback(agg.TotalItems, agg.CompletedItems, agg.TotalScore, agg.AvgAccuracy, agg.AvgFluency, agg.AvgPronunciation, agg.AvgCompleteness)
	studentAssignment.Feedback = &summary

	result := StudentResult{
		StudentID:        studentAssignment.StudentID,
		StudentName:      studentAssignment.Student.Name,
		TotalScore:       agg.TotalScore,
		MissingItems:     agg.MissingItems,
		TotalItems:       agg.TotalItems,
		CompletedItems:   agg.CompletedItems,
		AvgPronunciation: agg.AvgPronunciation,
		AvgAccuracy:      agg.AvgAccuracy,
		AvgFluency:       agg.AvgFluency,
		AvgCompleteness:  agg.AvgCompleteness,
		Feedback:         summary,
		Status:           StudentStatusGraded,
	}

	if err := s.repo.PersistStudentResult(ctx, studentAssignment, itemPtrs, attempts); err != nil {
		result.Status = StudentStatusError
	}
	return result
}
