// Package assignment implements the L3 assignment graph (§4, §3
// "Assignment graph"): classrooms, content, content items, assignments,
// and the per-student/per-item progress rows an assignment issue
// creates. The Repository never reasons about authorization — Service
// resolves a classroom's domain and consults internal/authz.Engine
// before acting.
package assignment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/duotopia/backend/internal/domain/models"
)

var (
	ErrClassroomNotFound = errors.New("classroom not found")
	ErrContentNotFound   = errors.New("content not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// Repository is the persistence contract for the assignment graph.
type Repository interface {
	CreateClassroom(ctx context.Context, classroom *models.Classroom) error
	FindClassroomByID(ctx context.Context, id uint) (*models.Classroom, error)
	ListClassroomsByTeacher(ctx context.Context, teacherID uint) ([]models.Classroom, error)
	ListClassroomsBySchool(ctx context.Context, schoolID uint) ([]models.Classroom, error)
	UpdateClassroom(ctx context.Context, classroom *models.Classroom) error
	LinkClassroomToSchool(ctx context.Context, classroomID, schoolID uint) error
	UnlinkClassroomFromSchool(ctx context.Context, classroomID uint) error
	FindClassroomSchoolLink(ctx context.Context, classroomID uint) (*models.ClassroomSchool, error)

	CreateContent(ctx context.Context, content *models.Content) error
	FindContentByID(ctx context.Context, id uint) (*models.Content, error)
	InsertContentItems(ctx context.Context, items []models.ContentItem) error
	ListContentItems(ctx context.Context, contentID uint) ([]models.ContentItem, error)

	// CreateAssignmentWithProgress persists the Assignment, its ordered
	// AssignmentContent rows, and one StudentAssignment/
	// StudentContentProgress/StudentItemProgress tree per studentID, all
	// in a single transaction (§3 "a StudentItemProgress row exists from
	// the moment an Assignment is issued to a Student").
	CreateAssignmentWithProgress(ctx context.Context, assignment *models.Assignment, contentIDs []uint, studentIDs []uint) error
	FindAssignmentByID(ctx context.Context, id uint) (*models.Assignment, error)
	ListAssignmentsByClassroom(ctx context.Context, classroomID uint) ([]models.Assignment, error)

	FindStudentAssignment(ctx context.Context, assignmentID, studentID uint) (*models.StudentAssignment, error)
	ListStudentAssignments(ctx context.Context, assignmentID uint) ([]models.StudentAssignment, error)
	ListItemProgress(ctx context.Context, studentAssignmentID uint) ([]models.StudentItemProgress, error)
	ListStudentsByClassroom(ctx context.Context, classroomID uint) ([]models.Student, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClassroom(ctx context.Context, classroom *models.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *repository) FindClassroomByID(ctx context.Context, id uint) (*models.Classroom, error) {
	var classroom models.Classroom
	if err := r.db.WithContext(ctx).Preload("SchoolLink").First(&classroom, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	return &classroom, nil
}

func (r *repository) ListClassroomsByTeacher(ctx context.Context, teacherID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := r.db.WithContext(ctx).
		Where("owning_teacher_id = ? AND is_active = ?", teacherID, true).
		Find(&classrooms).Error
	return classrooms, err
}

func (r *repository) ListClassroomsBySchool(ctx context.Context, schoolID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := r.db.WithContext(ctx).
		Joins("JOIN classroom_schools ON classroom_schools.classroom_id = classrooms.id").
		Where("classroom_schools.school_id = ? AND classrooms.is_active = ?", schoolID, true).
		Find(&classrooms).Error
	return classrooms, err
}

func (r *repository) UpdateClassroom(ctx context.Context, classroom *models.Classroom) error {
	return r.db.WithContext(ctx).Save(classroom).Error
}

func (r *repository) LinkClassroomToSchool(ctx context.Context, classroomID, schoolID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("classroom_id = ?", classroomID).Delete(&models.ClassroomSchool{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.ClassroomSchool{ClassroomID: classroomID, SchoolID: schoolID}).Error
	})
}

func (r *repository) UnlinkClassroomFromSchool(ctx context.Context, classroomID uint) error {
	return r.db.WithContext(ctx).Where("classroom_id = ?", classroomID).Delete(&models.ClassroomSchool{}).Error
}

func (r *repository) FindClassroomSchoolLink(ctx context.Context, classroomID uint) (*models.ClassroomSchool, error) {
	var link models.ClassroomSchool
	err := r.db.WithContext(ctx).Where("classroom_id = ?", classroomID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repository) CreateContent(ctx context.Context, content *models.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *repository) FindContentByID(ctx context.Context, id uint) (*models.Content, error) {
	var content models.Content
	if err := r.db.WithContext(ctx).Preload("Items").First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *repository) InsertContentItems(ctx context.Context, items []models.ContentItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) ListContentItems(ctx context.Context, contentID uint) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("order_index asc").
		Find(&items).Error
	return items, err
}

func (r *repository) CreateAssignmentWithProgress(ctx context.Context, assignment *models.Assignment, contentIDs []uint, studentIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		for i, contentID := range contentIDs {
			link := models.AssignmentContent{AssignmentID: assignment.ID, ContentID: contentID, OrderIndex: i}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		var items []models.ContentItem
		if len(contentIDs) > 0 {
			if err := tx.Where("content_id IN ?", contentIDs).Order("content_id asc, order_index asc").Find(&items).Error; err != nil {
				return err
			}
		}

		for _, studentID := range studentIDs {
			studentAssignment := models.StudentAssignment{
				StudentID:    studentID,
				AssignmentID: assignment.ID,
				Status:       models.StudentAssignmentNotStarted,
			}
			if err := tx.Create(&studentAssignment).Error; err != nil {
				return err
			}

			for orderIdx, contentID := range contentIDs {
				contentProgress := models.StudentContentProgress{
					StudentAssignmentID: studentAssignment.ID,
					ContentID:           contentID,
					OrderIndex:          orderIdx,
					Status:              models.ContentProgressNotStarted,
				}
				if err := tx.Create(&contentProgress).Error; err != nil {
					return err
				}

				for _, item := range items {
					if item.ContentID != contentID {
						continue
					}
					itemProgress := models.StudentItemProgress{
						StudentAssignmentID:      studentAssignment.ID,
						StudentContentProgressID: contentProgress.ID,
						ContentItemID:            item.ID,
					}
					if err := tx.Create(&itemProgress).Error; err != nil {
						return err
					}
				}
			}
		}

		return nil
	})
}

func (r *repository) FindAssignmentByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Preload("Classroom.SchoolLink").First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) ListAssignmentsByClassroom(ctx context.Context, classroomID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND is_active = ?", classroomID, true).
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) FindStudentAssignment(ctx context.Context, assignmentID, studentID uint) (*models.StudentAssignment, error) {
	var sa models.StudentAssignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		First(&sa).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

func (r *repository) ListStudentAssignments(ctx context.Context, assignmentID uint) ([]models.StudentAssignment, error) {
	var rows []models.StudentAssignment
	err := r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID).Find(&rows).Error
	return rows, err
}

func (r *repository) ListItemProgress(ctx context.Context, studentAssignmentID uint) ([]models.StudentItemProgress, error) {
	var rows []models.StudentItemProgress
	err := r.db.WithContext(ctx).
		Preload("ContentItem").
		Where("student_assignment_id = ?", studentAssignmentID).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListStudentsByClassroom(ctx context.Context, classroomID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND is_active = ?", classroomID, true).
		Find(&students).Error
	return students, err
}
