package assignment

import (
	"context"
	"sort"

	"github.com/duotopia/backend/internal/domain/models"
)

type fakeRepository struct {
	nextID uint

	classrooms      map[uint]*models.Classroom
	classroomSchool map[uint]uint // classroomID -> schoolID
	contents        map[uint]*models.Content
	contentItems    map[uint][]models.ContentItem // contentID -> items
	assignments     map[uint]*models.Assignment
	assignmentLinks map[uint][]models.AssignmentContent
	studentAssign   map[uint]*models.StudentAssignment
	itemProgress    map[uint][]models.StudentItemProgress // studentAssignmentID -> items
	students        map[uint][]models.Student              // classroomID -> students
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		classrooms:      make(map[uint]*models.Classroom),
		classroomSchool: make(map[uint]uint),
		contents:        make(map[uint]*models.Content),
		contentItems:    make(map[uint][]models.ContentItem),
		assignments:     make(map[uint]*models.Assignment),
		assignmentLinks: make(map[uint][]models.AssignmentContent),
		studentAssign:   make(map[uint]*models.StudentAssignment),
		itemProgress:    make(map[uint][]models.StudentItemProgress),
		students:        make(map[uint][]models.Student),
	}
}

func (f *fakeRepository) newID() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) CreateClassroom(_ context.Context, classroom *models.Classroom) error {
	classroom.ID = f.newID()
	cp := *classroom
	f.classrooms[classroom.ID] = &cp
	return nil
}

func (f *fakeRepository) FindClassroomByID(_ context.Context, id uint) (*models.Classroom, error) {
	c, ok := f.classrooms[id]
	if !ok {
		return nil, ErrClassroomNotFound
	}
	cp := *c
	if schoolID, linked := f.classroomSchool[id]; linked {
		cp.SchoolLink = &models.ClassroomSchool{ClassroomID: id, SchoolID: schoolID}
	}
	return &cp, nil
}

func (f *fakeRepository) ListClassroomsByTeacher(_ context.Context, teacherID uint) ([]models.Classroom, error) {
	var out []models.Classroom
	for _, c := range f.classrooms {
		if c.OwningTeacherID == teacherID && c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListClassroomsBySchool(_ context.Context, schoolID uint) ([]models.Classroom, error) {
	var out []models.Classroom
	for id, sid := range f.classroomSchool {
		if sid == schoolID && f.classrooms[id].IsActive {
			out = append(out, *f.classrooms[id])
		}
	}
	return out, nil
}

func (f *fakeRepository) UpdateClassroom(_ context.Context, classroom *models.Classroom) error {
	f.classrooms[classroom.ID] = classroom
	return nil
}

func (f *fakeRepository) LinkClassroomToSchool(_ context.Context, classroomID, schoolID uint) error {
	f.classroomSchool[classroomID] = schoolID
	return nil
}

func (f *fakeRepository) UnlinkClassroomFromSchool(_ context.Context, classroomID uint) error {
	delete(f.classroomSchool, classroomID)
	return nil
}

func (f *fakeRepository) FindClassroomSchoolLink(_ context.Context, classroomID uint) (*models.ClassroomSchool, error) {
	schoolID, ok := f.classroomSchool[classroomID]
	if !ok {
		return nil, nil
	}
	return &models.ClassroomSchool{ClassroomID: classroomID, SchoolID: schoolID}, nil
}

func (f *fakeRepository) CreateContent(_ context.Context, content *models.Content) error {
	content.ID = f.newID()
	cp := *content
	f.contents[content.ID] = &cp
	return nil
}

func (f *fakeRepository) FindContentByID(_ context.Context, id uint) (*models.Content, error) {
	c, ok := f.contents[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	cp := *c
	cp.Items = f.contentItems[id]
	return &cp, nil
}

func (f *fakeRepository) InsertContentItems(_ context.Context, items []models.ContentItem) error {
	for i := range items {
		items[i].ID = f.newID()
		f.contentItems[items[i].ContentID] = append(f.contentItems[items[i].ContentID], items[i])
	}
	return nil
}

func (f *fakeRepository) ListContentItems(_ context.Context, contentID uint) ([]models.ContentItem, error) {
	items := append([]models.ContentItem(nil), f.contentItems[contentID]...)
	sort.Slice(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })
	return items, nil
}

func (f *fakeRepository) CreateAssignmentWithProgress(_ context.Context, assignment *models.Assignment, contentIDs []uint, studentIDs []uint) error {
	assignment.ID = f.newID()
	cp := *assignment
	f.assignments[assignment.ID] = &cp

	for i, contentID := range contentIDs {
		f.assignmentLinks[assignment.ID] = append(f.assignmentLinks[assignment.ID], models.AssignmentContent{
			AssignmentID: assignment.ID, ContentID: contentID, OrderIndex: i,
		})
	}

	for _, studentID := range studentIDs {
		sa := &models.StudentAssignment{
			ID:           f.newID(),
			StudentID:    studentID,
			AssignmentID: assignment.ID,
			Status:       models.StudentAssignmentNotStarted,
		}
		f.studentAssign[sa.ID] = sa

		for _, contentID := range contentIDs {
			contentProgressID := f.newID()
			for _, item := range f.contentItems[contentID] {
				f.itemProgress[sa.ID] = append(f.itemProgress[sa.ID], models.StudentItemProgress{
					ID:                       f.newID(),
					StudentAssignmentID:      sa.ID,
					StudentContentProgressID: contentProgressID,
					ContentItemID:            item.ID,
					ContentItem:              item,
				})
			}
		}
	}
	return nil
}

func (f *fakeRepository) FindAssignmentByID(_ context.Context, id uint) (*models.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	cp := *a
	if classroom, err := f.FindClassroomByID(context.Background(), a.ClassroomID); err == nil {
		cp.Classroom = *classroom
	}
	return &cp, nil
}

func (f *fakeRepository) ListAssignmentsByClassroom(_ context.Context, classroomID uint) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		if a.ClassroomID == classroomID && a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindStudentAssignment(_ context.Context, assignmentID, studentID uint) (*models.StudentAssignment, error) {
	for _, sa := range f.studentAssign {
		if sa.AssignmentID == assignmentID && sa.StudentID == studentID {
			cp := *sa
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ListStudentAssignments(_ context.Context, assignmentID uint) ([]models.StudentAssignment, error) {
	var out []models.StudentAssignment
	for _, sa := range f.studentAssign {
		if sa.AssignmentID == assignmentID {
			out = append(out, *sa)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListItemProgress(_ context.Context, studentAssignmentID uint) ([]models.StudentItemProgress, error) {
	return append([]models.StudentItemProgress(nil), f.itemProgress[studentAssignmentID]...), nil
}

func (f *fakeRepository) ListStudentsByClassroom(_ context.Context, classroomID uint) ([]models.Student, error) {
	return append([]models.Student(nil), f.students[classroomID]...), nil
}

func (f *fakeRepository) addStudent(classroomID uint, name string) models.Student {
	student := models.Student{ID: f.newID(), ClassroomID: classroomID, Name: name, IsActive: true}
	f.students[classroomID] = append(f.students[classroomID], student)
	return student
}
