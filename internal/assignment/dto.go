package assignment

// CreateClassroomRequest creates a classroom owned by the caller,
// optionally linked to a school at creation time.
type CreateClassroomRequest struct {
	Name     string
	SchoolID *uint
}

// CreateContentRequest creates a Content group under a lesson.
type CreateContentRequest struct {
	LessonID uint
	Type     string
}

// ContentItemInput is one row of content to attach to a Content, in
// the order given.
type ContentItemInput struct {
	ReferenceText     string
	Translation       *string
	ReferenceAudioURL *string
}

// IssueAssignmentRequest creates an Assignment for a classroom and
// fans out StudentAssignment/progress rows for every active student
// currently in that classroom.
type IssueAssignmentRequest struct {
	ClassroomID uint
	Title       string
	ContentIDs  []uint
}
