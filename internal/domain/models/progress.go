package models

import (
	"errors"
	"time"
)

// StudentAssignmentStatus is the lifecycle status of a StudentAssignment.
type StudentAssignmentStatus string

const (
	StudentAssignmentNotStarted StudentAssignmentStatus = "NOT_STARTED"
	StudentAssignmentInProgress StudentAssignmentStatus = "IN_PROGRESS"
	StudentAssignmentSubmitted  StudentAssignmentStatus = "SUBMITTED"
	StudentAssignmentGraded     StudentAssignmentStatus = "GRADED"
	StudentAssignmentReturned   StudentAssignmentStatus = "RETURNED"
)

// IsValid reports whether s is one of the closed set of statuses.
func (s StudentAssignmentStatus) IsValid() bool {
	switch s {
	case StudentAssignmentNotStarted, StudentAssignmentInProgress, StudentAssignmentSubmitted,
		StudentAssignmentGraded, StudentAssignmentReturned:
		return true
	}
	return false
}

// StudentAssignment tracks one student's attempt at one Assignment.
type StudentAssignment struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	StudentID   uint                     `gorm:"index:idx_student_assignment,unique;not null" json:"student_id"`
	AssignmentID uint                    `gorm:"index:idx_student_assignment,unique;not null" json:"assignment_id"`
	Status      StudentAssignmentStatus  `gorm:"type:varchar(20);not null;default:'NOT_STARTED'" json:"status"`
	Feedback    *string                  `gorm:"type:text" json:"feedback"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`

	Student    Student                  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Assignment Assignment               `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	Contents   []StudentContentProgress `gorm:"foreignKey:StudentAssignmentID" json:"contents,omitempty"`
}

// TableName specifies the table name for StudentAssignment.
func (StudentAssignment) TableName() string {
	return "student_assignments"
}

// Validate validates the student assignment data.
func (sa *StudentAssignment) Validate() error {
	if sa.StudentID == 0 {
		return errors.New("student_id is required")
	}
	if sa.AssignmentID == 0 {
		return errors.New("assignment_id is required")
	}
	if !sa.Status.IsValid() {
		return errors.New("status is invalid")
	}
	return nil
}

// StudentContentProgressStatus is the per-content status within a
// StudentAssignment.
type StudentContentProgressStatus string

const (
	ContentProgressNotStarted StudentContentProgressStatus = "NOT_STARTED"
	ContentProgressInProgress StudentContentProgressStatus = "IN_PROGRESS"
	ContentProgressCompleted  StudentContentProgressStatus = "COMPLETED"
)

// StudentContentProgress tracks progress through one Content within a
// StudentAssignment, preserving the content's order index.
type StudentContentProgress struct {
	ID                  uint                          `gorm:"primaryKey" json:"id"`
	StudentAssignmentID uint                          `gorm:"index:idx_student_content,unique;not null" json:"student_assignment_id"`
	ContentID           uint                          `gorm:"index:idx_student_content,unique;not null" json:"content_id"`
	OrderIndex          int                           `gorm:"not null" json:"order_index"`
	Status              StudentContentProgressStatus  `gorm:"type:varchar(20);not null;default:'NOT_STARTED'" json:"status"`

	StudentAssignment StudentAssignment      `gorm:"foreignKey:StudentAssignmentID" json:"-"`
	Content           Content                `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	Items             []StudentItemProgress  `gorm:"foreignKey:StudentContentProgressID" json:"items,omitempty"`
}

// TableName specifies the table name for StudentContentProgress.
func (StudentContentProgress) TableName() string {
	return "student_content_progress"
}

// Validate validates the progress row.
func (p *StudentContentProgress) Validate() error {
	if p.StudentAssignmentID == 0 {
		return errors.New("student_assignment_id is required")
	}
	if p.ContentID == 0 {
		return errors.New("content_id is required")
	}
	return nil
}

// StudentItemProgress is the unit of assessment: one ContentItem within
// one StudentAssignment. Invariants enforced by callers (never by the
// struct itself, since GORM cannot express cross-field constraints):
//
//	I2 every row has exactly one ContentItem and one StudentAssignment (FK columns, not nullable).
//	I3 the four score dimensions are either all set in [0,100] or all null.
//	I4 if RecordingURL is nil, all four score dimensions are nil.
//	I6 every write of a non-nil score is paired with LastAssessmentAt being set.
type StudentItemProgress struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	StudentAssignmentID      uint       `gorm:"index:idx_student_item,unique;not null" json:"student_assignment_id"`
	StudentContentProgressID uint       `gorm:"index;not null" json:"student_content_progress_id"`
	ContentItemID            uint       `gorm:"index:idx_student_item,unique;not null" json:"content_item_id"`
	RecordingURL             *string    `gorm:"type:text" json:"recording_url"`
	Transcription            *string    `gorm:"type:text" json:"transcription"`
	Accuracy                 *float64   `json:"accuracy"`
	Fluency                  *float64   `json:"fluency"`
	Pronunciation            *float64   `json:"pronunciation"`
	Completeness             *float64   `json:"completeness"`
	RawAssessment            *string    `gorm:"type:jsonb" json:"-"`
	ItemFeedback             *string    `gorm:"type:text" json:"item_feedback"`
	LastAssessmentAt         *time.Time `json:"last_assessment_at"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`

	StudentAssignment      StudentAssignment      `gorm:"foreignKey:StudentAssignmentID" json:"-"`
	StudentContentProgress StudentContentProgress `gorm:"foreignKey:StudentContentProgressID" json:"-"`
	ContentItem            ContentItem            `gorm:"foreignKey:ContentItemID" json:"content_item,omitempty"`
}

// TableName specifies the table name for StudentItemProgress.
func (StudentItemProgress) TableName() string {
	return "student_item_progress"
}

// Validate validates the progress row and the I3/I4 score invariants.
func (p *StudentItemProgress) Validate() error {
	if p.StudentAssignmentID == 0 {
		return errors.New("student_assignment_id is required")
	}
	if p.ContentItemID == 0 {
		return errors.New("content_item_id is required")
	}
	if !p.scoresAllSetOrAllNil() {
		return errors.New("score dimensions must be all set or all null")
	}
	for _, v := range p.scores() {
		if v != nil && (*v < 0 || *v > 100) {
			return errors.New("score dimensions must be in [0,100]")
		}
	}
	if p.RecordingURL == nil && p.HasAnyScore() {
		return errors.New("score dimensions must be null when recording_url is null")
	}
	return nil
}

func (p *StudentItemProgress) scores() []*float64 {
	return []*float64{p.Accuracy, p.Fluency, p.Pronunciation, p.Completeness}
}

func (p *StudentItemProgress) scoresAllSetOrAllNil() bool {
	nilCount := 0
	for _, v := range p.scores() {
		if v == nil {
			nilCount++
		}
	}
	return nilCount == 0 || nilCount == 4
}

// HasAnyScore reports whether any of the four score dimensions is set.
func (p *StudentItemProgress) HasAnyScore() bool {
	for _, v := range p.scores() {
		if v != nil {
			return true
		}
	}
	return false
}

// IsComplete reports whether the item counts toward completed_items
// (§4.4 aggregation): recording_url is non-null and non-empty.
func (p *StudentItemProgress) IsComplete() bool {
	return p.RecordingURL != nil && *p.RecordingURL != ""
}

// IsEligibleForAssessment reports whether the item qualifies for batch
// dispatch (§4.4): a recording exists but no assessment has run yet.
func (p *StudentItemProgress) IsEligibleForAssessment() bool {
	return p.RecordingURL != nil && *p.RecordingURL != "" && p.LastAssessmentAt == nil
}

// ApplyScores sets the four score dimensions and, per I6, stamps
// LastAssessmentAt in the same call.
func (p *StudentItemProgress) ApplyScores(accuracy, fluency, pronunciation, completeness float64, at time.Time) {
	p.Accuracy = &accuracy
	p.Fluency = &fluency
	p.Pronunciation = &pronunciation
	p.Completeness = &completeness
	p.LastAssessmentAt = &at
}
