package grading

// StudentStatus is the outcome of grading one student's assignment.
type StudentStatus string

const (
	StudentStatusGraded StudentStatus = "graded"
	StudentStatusError  StudentStatus = "error"
)

// StudentResult is one row of batch_grade_assignment's response
// (§4.4 "Result shape").
type StudentResult struct {
	StudentID       uint          `json:"student_id"`
	StudentName     string        `json:"student_name"`
	TotalScore      float64       `json:"total_score"`
	MissingItems    int           `json:"missing_items"`
	TotalItems      int           `json:"total_items"`
	CompletedItems  int           `json:"completed_items"`
	AvgPronunciation float64      `json:"avg_pronunciation"`
	AvgAccuracy     float64       `json:"avg_accuracy"`
	AvgFluency      float64       `json:"avg_fluency"`
	AvgCompleteness float64       `json:"avg_completeness"`
	Feedback        string        `json:"feedback"`
	Status          StudentStatus `json:"status"`
}
