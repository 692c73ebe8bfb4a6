package identity

import (
	"context"

	"github.com/duotopia/backend/internal/domain/models"
)

type fakeRepository struct {
	teachers   map[uint]*models.Teacher
	students   map[uint]*models.Student
	nextTeacID uint
	nextStudID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		teachers: make(map[uint]*models.Teacher),
		students: make(map[uint]*models.Student),
	}
}

func (f *fakeRepository) CreateTeacher(_ context.Context, teacher *models.Teacher) error {
	f.nextTeacID++
	teacher.ID = f.nextTeacID
	cp := *teacher
	f.teachers[teacher.ID] = &cp
	return nil
}

func (f *fakeRepository) FindTeacherByEmail(_ context.Context, email string) (*models.Teacher, error) {
	for _, t := range f.teachers {
		if t.Email == email {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errTeacherNotFound()
}

func (f *fakeRepository) FindTeacherByID(_ context.Context, id uint) (*models.Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return nil, errTeacherNotFound()
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepository) UpdateTeacherCredentialHash(_ context.Context, id uint, hash string) error {
	t, ok := f.teachers[id]
	if !ok {
		return errTeacherNotFound()
	}
	t.CredentialHash = hash
	return nil
}

func (f *fakeRepository) CreateStudent(_ context.Context, student *models.Student) error {
	f.nextStudID++
	student.ID = f.nextStudID
	cp := *student
	f.students[student.ID] = &cp
	return nil
}

func (f *fakeRepository) FindStudentByID(_ context.Context, id uint) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, errStudentNotFound()
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepository) ListStudentsByClassroom(_ context.Context, classroomID uint) ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.students {
		if s.ClassroomID == classroomID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepository) UpdateStudentCredentialHash(_ context.Context, id uint, hash string) error {
	s, ok := f.students[id]
	if !ok {
		return errStudentNotFound()
	}
	s.CredentialHash = hash
	return nil
}

func (f *fakeRepository) UpdateStudentActive(_ context.Context, id uint, active bool) error {
	s, ok := f.students[id]
	if !ok {
		return errStudentNotFound()
	}
	s.IsActive = active
	return nil
}
