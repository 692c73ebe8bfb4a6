package feedback

import (
	"context"
	"strings"

	"github.com/duotopia/backend/internal/apperr"
	"github.com/duotopia/backend/internal/authz"
	"github.com/duotopia/backend/internal/domain/models"
)

// Service implements the teacher feedback-override operation (D.3).
type Service struct {
	repo   Repository
	engine *authz.Engine
}

// NewService constructs a Service bound to repo and engine.
func NewService(repo Repository, engine *authz.Engine) *Service {
	return &Service{repo: repo, engine: engine}
}

// OverrideItemFeedback replaces the system-synthesized item_feedback
// on a StudentItemProgress row with teacherID's own text. Overriding
// with an empty string is rejected — teachers who want no comment
// simply don't call this operation.
func (s *Service) OverrideItemFeedback(ctx context.Context, teacherID, itemProgressID uint, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperr.Validation("feedback text is required", nil)
	}

	progress, err := s.repo.FindItemProgressByID(ctx, itemProgressID)
	if err != nil {
		return err
	}
	classroom := progress.StudentAssignment.Assignment.Classroom
	if !s.canActOnClassroom(&classroom, teacherID) {
		return apperr.Permission("not permitted to edit feedback for this item")
	}

	return s.repo.UpdateItemFeedback(ctx, itemProgressID, trimmed)
}

// OverrideAssignmentFeedback replaces the system-synthesized
// assignment-level feedback on a StudentAssignment row.
func (s *Service) OverrideAssignmentFeedback(ctx context.Context, teacherID, studentAssignmentID uint, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperr.Validation("feedback text is required", nil)
	}

	sa, err := s.repo.FindStudentAssignmentByID(ctx, studentAssignmentID)
	if err != nil {
		return err
	}
	classroom := sa.Assignment.Classroom
	if !s.canActOnClassroom(&classroom, teacherID) {
		return apperr.Permission("not permitted to edit feedback for this assignment")
	}

	return s.repo.UpdateAssignmentFeedback(ctx, studentAssignmentID, trimmed)
}

// canActOnClassroom mirrors internal/assignment.Service's ownership
// rule: a classroom's owning teacher may always act on it; otherwise
// the classroom must be linked to a school in which teacherID holds a
// role granting assignment.update.
func (s *Service) canActOnClassroom(classroom *models.Classroom, teacherID uint) bool {
	if classroom.OwningTeacherID == teacherID {
		return true
	}
	if classroom.SchoolLink == nil {
		return false
	}
	domain := authz.SchoolDomain(classroom.SchoolLink.SchoolID)
	return s.engine.Check(teacherID, authz.ResourceAssignment, authz.ActionUpdate, domain)
}
