package progresshub

// Reporter adapts a Hub to internal/grading's ProgressReporter
// interface, translating per-student grading outcomes into
// ProgressEvents broadcast to that assignment's subscribers.
type Reporter struct {
	hub *Hub
}

// NewReporter constructs a Reporter bound to hub.
func NewReporter(hub *Hub) *Reporter {
	return &Reporter{hub: hub}
}

// ReportStudentGraded broadcasts a per-student completion event.
func (r *Reporter) ReportStudentGraded(assignmentID, studentID uint, errored bool) {
	stage := StageStudentGraded
	if errored {
		stage = StageStudentErrored
	}
	r.hub.Broadcast(&ProgressEvent{AssignmentID: assignmentID, StudentID: studentID, Stage: stage})
}

// ReportBatchComplete broadcasts the final event for a batch run.
func (r *Reporter) ReportBatchComplete(assignmentID uint) {
	r.hub.Broadcast(&ProgressEvent{AssignmentID: assignmentID, Stage: StageBatchComplete})
}
