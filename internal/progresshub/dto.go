package progresshub

// ProgressEvent is one update pushed to an assignment's live feed.
type ProgressEvent struct {
	AssignmentID uint   `json:"assignment_id"`
	StudentID    uint   `json:"student_id,omitempty"`
	Stage        string `json:"stage"`
	Message      string `json:"message,omitempty"`
}

const (
	StageStudentGraded    = "student_graded"
	StageStudentErrored   = "student_errored"
	StageBatchComplete    = "batch_complete"
)
