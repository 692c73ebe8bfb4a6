package assignment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotopia/backend/internal/authz"
)

func newTestService() (*Service, *fakeRepository, *authz.Engine) {
	repo := newFakeRepository()
	engine := authz.NewEngine()
	return NewService(repo, engine), repo, engine
}

func TestCreateClassroomWithoutSchoolIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), classroom.OwningTeacherID)
	assert.Nil(t, classroom.SchoolLink)
}

func TestCreateClassroomRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "   "})
	assert.Error(t, err)
}

func TestCreateClassroomLinkedToSchoolRequiresGrant(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()
	schoolID := uint(9)

	_, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3", SchoolID: &schoolID})
	assert.Error(t, err, "teacher 1 has no grant in school-9 yet")

	require.NoError(t, engine.Grant(1, authz.RoleTeacher, authz.SchoolDomain(schoolID)))
	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 4", SchoolID: &schoolID})
	require.NoError(t, err)
	require.NotNil(t, classroom.SchoolLink)
	assert.Equal(t, schoolID, classroom.SchoolLink.SchoolID)
}

func TestGetClassroomDeniesNonOwnerWithoutGrant(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3"})
	require.NoError(t, err)

	_, err = svc.GetClassroom(ctx, 2, classroom.ID)
	assert.Error(t, err)
}

func TestAddContentItemsAssignsIncreasingOrderIndex(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	content, err := svc.CreateContent(ctx, CreateContentRequest{LessonID: 1, Type: "reading_passage"})
	require.NoError(t, err)

	items, err := svc.AddContentItems(ctx, content.ID, []ContentItemInput{
		{ReferenceText: "Hello"},
		{ReferenceText: "World"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].OrderIndex)
	assert.Equal(t, 1, items[1].OrderIndex)

	more, err := svc.AddContentItems(ctx, content.ID, []ContentItemInput{{ReferenceText: "Again"}})
	require.NoError(t, err)
	assert.Equal(t, 2, more[0].OrderIndex, "appends after existing items rather than restarting at 0")
}

func TestAddContentItemsRejectsBlankReferenceText(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	content, err := svc.CreateContent(ctx, CreateContentRequest{LessonID: 1, Type: "vocabulary"})
	require.NoError(t, err)

	_, err = svc.AddContentItems(ctx, content.ID, []ContentItemInput{{ReferenceText: "   "}})
	assert.Error(t, err)
}

func TestIssueAssignmentCreatesProgressForEveryActiveStudent(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3"})
	require.NoError(t, err)
	content, err := svc.CreateContent(ctx, CreateContentRequest{LessonID: 1, Type: "dialogue"})
	require.NoError(t, err)
	_, err = svc.AddContentItems(ctx, content.ID, []ContentItemInput{{ReferenceText: "Hi"}, {ReferenceText: "Bye"}})
	require.NoError(t, err)

	studentA := repo.addStudent(classroom.ID, "Alice")
	studentB := repo.addStudent(classroom.ID, "Bob")

	assignment, err := svc.IssueAssignment(ctx, 1, IssueAssignmentRequest{
		ClassroomID: classroom.ID,
		Title:       "Unit 1",
		ContentIDs:  []uint{content.ID},
	})
	require.NoError(t, err)

	saA, err := repo.FindStudentAssignment(ctx, assignment.ID, studentA.ID)
	require.NoError(t, err)
	require.NotNil(t, saA)
	itemsA, err := repo.ListItemProgress(ctx, saA.ID)
	require.NoError(t, err)
	assert.Len(t, itemsA, 2, "two content items fan out to two progress rows per student")

	saB, err := repo.FindStudentAssignment(ctx, assignment.ID, studentB.ID)
	require.NoError(t, err)
	require.NotNil(t, saB)

	for _, ip := range itemsA {
		assert.False(t, ip.IsComplete(), "progress rows start with no recording")
		assert.False(t, ip.HasAnyScore())
	}
}

func TestIssueAssignmentRejectsEmptyContentSelection(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3"})
	require.NoError(t, err)

	_, err = svc.IssueAssignment(ctx, 1, IssueAssignmentRequest{ClassroomID: classroom.ID, Title: "Unit 1"})
	assert.Error(t, err)
}

func TestIssueAssignmentDeniesNonOwningTeacher(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3"})
	require.NoError(t, err)
	content, err := svc.CreateContent(ctx, CreateContentRequest{LessonID: 1, Type: "dialogue"})
	require.NoError(t, err)
	_, err = svc.AddContentItems(ctx, content.ID, []ContentItemInput{{ReferenceText: "Hi"}})
	require.NoError(t, err)

	_, err = svc.IssueAssignment(ctx, 2, IssueAssignmentRequest{
		ClassroomID: classroom.ID,
		Title:       "Unit 1",
		ContentIDs:  []uint{content.ID},
	})
	assert.Error(t, err)
}

func TestDomainOfAssignmentReflectsSchoolLink(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()
	schoolID := uint(9)
	require.NoError(t, engine.Grant(1, authz.RoleTeacher, authz.SchoolDomain(schoolID)))

	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3", SchoolID: &schoolID})
	require.NoError(t, err)
	content, err := svc.CreateContent(ctx, CreateContentRequest{LessonID: 1, Type: "dialogue"})
	require.NoError(t, err)
	_, err = svc.AddContentItems(ctx, content.ID, []ContentItemInput{{ReferenceText: "Hi"}})
	require.NoError(t, err)

	assignment, err := svc.IssueAssignment(ctx, 1, IssueAssignmentRequest{
		ClassroomID: classroom.ID,
		Title:       "Unit 1",
		ContentIDs:  []uint{content.ID},
	})
	require.NoError(t, err)

	domain, ok, err := svc.DomainOfAssignment(ctx, assignment.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, authz.SchoolDomain(schoolID), domain)
}

func TestDomainOfAssignmentFalseWhenClassroomUnlinked(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	classroom, err := svc.CreateClassroom(ctx, 1, CreateClassroomRequest{Name: "Period 3"})
	require.NoError(t, err)
	content, err := svc.CreateContent(ctx, CreateContentRequest{LessonID: 1, Type: "dialogue"})
	require.NoError(t, err)
	_, err = svc.AddContentItems(ctx, content.ID, []ContentItemInput{{ReferenceText: "Hi"}})
	require.NoError(t, err)

	assignment, err := svc.IssueAssignment(ctx, 1, IssueAssignmentRequest{
		ClassroomID: classroom.ID,
		Title:       "Unit 1",
		ContentIDs:  []uint{content.ID},
	})
	require.NoError(t, err)

	_, ok, err := svc.DomainOfAssignment(ctx, assignment.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
