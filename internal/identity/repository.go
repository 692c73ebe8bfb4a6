// Package identity implements the L0 identity store: teacher and
// student accounts, credential hashing, and teacher session-token
// issuance. It sits beneath every other module — internal/orggraph,
// internal/assignment and internal/authz all key their graphs off a
// teacher id minted here, and internal/speech's scoped provider
// credential is issued for a principal authenticated through this
// package's JWTs.
package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/duotopia/backend/internal/domain/models"
)

// Repository defines persistence operations for teacher and student
// identity records.
type Repository interface {
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error
	FindTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error)
	FindTeacherByID(ctx context.Context, id uint) (*models.Teacher, error)
	UpdateTeacherCredentialHash(ctx context.Context, id uint, hash string) error

	CreateStudent(ctx context.Context, student *models.Student) error
	FindStudentByID(ctx context.Context, id uint) (*models.Student, error)
	ListStudentsByClassroom(ctx context.Context, classroomID uint) ([]models.Student, error)
	UpdateStudentCredentialHash(ctx context.Context, id uint, hash string) error
	UpdateStudentActive(ctx context.Context, id uint, active bool) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	if err := r.db.WithContext(ctx).Create(teacher).Error; err != nil {
		return err
	}
	return nil
}

func (r *repository) FindTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&teacher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTeacherNotFound()
		}
		return nil, err
	}
	return &teacher, nil
}

func (r *repository) FindTeacherByID(ctx context.Context, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).First(&teacher, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTeacherNotFound()
		}
		return nil, err
	}
	return &teacher, nil
}

func (r *repository) UpdateTeacherCredentialHash(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.Teacher{}).Where("id = ?", id).Update("credential_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errTeacherNotFound()
	}
	return nil
}

func (r *repository) CreateStudent(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *repository) FindStudentByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).First(&student, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errStudentNotFound()
		}
		return nil, err
	}
	return &student, nil
}

func (r *repository) ListStudentsByClassroom(ctx context.Context, classroomID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).Where("classroom_id = ?", classroomID).Order("name asc").Find(&students).Error
	return students, err
}

func (r *repository) UpdateStudentCredentialHash(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Update("credential_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStudentNotFound()
	}
	return nil
}

func (r *repository) UpdateStudentActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStudentNotFound()
	}
	return nil
}
