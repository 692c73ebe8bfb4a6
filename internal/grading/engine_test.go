package grading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotopia/backend/internal/domain/models"
	"github.com/duotopia/backend/internal/providers/assessment"
)

func recordingURL(s string) *string { return &s }

func TestBatchGradeAssignment_AuthorizationFailureBlocksAllWork(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	gate := &fakeGate{err: errors.New("forbidden")}
	provider := assessment.NewMockProvider()
	audio := newFakeAudioStore()

	svc := NewService(repo, gate, provider, audio, 4, 30)

	_, err := svc.BatchGradeAssignment(ctx, 1, 99)
	require.Error(t, err)
	assert.Empty(t, repo.persisted, "no work should begin before authorization succeeds")
}

func TestBatchGradeAssignment_ScoresEligibleItemsAndSkipsScored(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.assignment = &models.Assignment{ID: 1}
	repo.studentAssignments = []models.StudentAssignment{
		{ID: 10, StudentID: 100, AssignmentID: 1, Student: models.Student{ID: 100, Name: "Ada"}},
	}
	alreadyAssessed := time.Now().Add(-time.Hour)
	repo.items[10] = []models.StudentItemProgress{
		{ID: 1, StudentAssignmentID: 10, RecordingURL: recordingURL("attempts/a.audio")},
		{ID: 2, StudentAssignmentID: 10, RecordingURL: recordingURL("attempts/b.audio"), Accuracy: f(90), Fluency: f(90), Pronunciation: f(90), Completeness: f(90), LastAssessmentAt: &alreadyAssessed},
	}

	gate := &fakeGate{assignment: repo.assignment}
	provider := assessment.NewMockProvider(assessment.MockResponse{
		Result: &assessment.Result{Score: assessment.Score{Accuracy: 95, Fluency: 92, Pronunciation: 88, Completeness: 97}, RecognizedText: "hello"},
	})
	audio := newFakeAudioStore()

	svc := NewService(repo, gate, provider, audio, 4, 30)

	results, err := svc.BatchGradeAssignment(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, uint(100), result.StudentID)
	assert.Equal(t, "Ada", result.StudentName)
	assert.Equal(t, StudentStatusGraded, result.Status)
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, 2, result.CompletedItems, "both items have a recording_url")
	assert.Equal(t, 0, result.MissingItems, "item 1 gets scored by the mock provider, item 2 already had scores")

	require.Len(t, repo.persisted, 1)
	persisted := repo.persisted[0]
	require.NotNil(t, persisted.feedback)
	assert.NotEmpty(t, *persisted.feedback)
	require.Len(t, persisted.attempts, 1, "only the newly-scored item produces an AssessmentAttempt")

	// item 2 was already scored; its values must be untouched.
	var item2 *models.StudentItemProgress
	for _, item := range persisted.items {
		if item.ID == 2 {
			item2 = item
		}
	}
	require.NotNil(t, item2)
	assert.Equal(t, 90.0, *item2.Accuracy)
}

func TestBatchGradeAssignment_ProviderFailureLeavesItemUnscored(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.assignment = &models.Assignment{ID: 2}
	repo.studentAssignments = []models.StudentAssignment{
		{ID: 20, StudentID: 200, AssignmentID: 2, Student: models.Student{ID: 200, Name: "Babbage"}},
	}
	repo.items[20] = []models.StudentItemProgress{
		{ID: 3, StudentAssignmentID: 20, RecordingURL: recordingURL("attempts/c.audio")},
	}

	gate := &fakeGate{assignment: repo.assignment}
	provider := assessment.NewMockProvider(assessment.MockResponse{Err: errors.New("provider timeout")})
	audio := newFakeAudioStore()

	svc := NewService(repo, gate, provider, audio, 4, 30)

	results, err := svc.BatchGradeAssignment(ctx, 1, 2)
	require.NoError(t, err, "a per-item provider failure must never surface as an HTTP error")
	require.Len(t, results, 1)

	assert.Equal(t, StudentStatusGraded, results[0].Status)
	assert.Equal(t, 1, results[0].MissingItems)
	assert.Equal(t, 0.0, results[0].TotalScore)
}

func TestBatchGradeAssignment_PerStudentTransactionFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.assignment = &models.Assignment{ID: 3}
	repo.studentAssignments = []models.StudentAssignment{
		{ID: 30, StudentID: 300, AssignmentID: 3, Student: models.Student{ID: 300, Name: "Curie"}},
		{ID: 31, StudentID: 301, AssignmentID: 3, Student: models.Student{ID: 301, Name: "Darwin"}},
	}
	repo.items[30] = []models.StudentItemProgress{{ID: 4, StudentAssignmentID: 30, RecordingURL: recordingURL("attempts/d.audio")}}
	repo.items[31] = []models.StudentItemProgress{{ID: 5, StudentAssignmentID: 31, RecordingURL: recordingURL("attempts/e.audio")}}
	repo.failFor[30] = true

	gate := &fakeGate{assignment: repo.assignment}
	provider := assessment.NewMockProvider(assessment.MockResponse{
		Result: &assessment.Result{Score: assessment.Score{Accuracy: 80, Fluency: 80, Pronunciation: 80, Completeness: 80}},
	})
	audio := newFakeAudioStore()

	svc := NewService(repo, gate, provider, audio, 4, 30)

	results, err := svc.BatchGradeAssignment(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var studentCurie, studentDarwin StudentResult
	for _, r := range results {
		switch r.StudentID {
		case 300:
			studentCurie = r
		case 301:
			studentDarwin = r
		}
	}
	assert.Equal(t, StudentStatusError, studentCurie.Status)
	assert.Equal(t, StudentStatusGraded, studentDarwin.Status, "one student's transaction failure must not affect another's")
	assert.Len(t, repo.persisted, 1, "only the succeeding student's transaction actually commits")
}

func f(v float64) *float64 { return &v }
