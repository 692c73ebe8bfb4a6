package orggraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotopia/backend/internal/authz"
	"github.com/duotopia/backend/internal/domain/models"
)

func newTestService() (*Service, *fakeRepository, *authz.Engine) {
	repo := newFakeRepository()
	engine := authz.NewEngine()
	return NewService(repo, engine), repo, engine
}

func TestCreateOrganizationGrantsOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()

	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)

	assert.True(t, engine.Check(1, authz.ResourceOrganization, authz.ActionManage, org.Domain()))
	assert.False(t, engine.Check(2, authz.ResourceOrganization, authz.ActionManage, org.Domain()))
}

func TestCreateOrganizationRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "  ", OwnerID: 1})
	assert.Error(t, err)
}

func TestCreateSchoolEstablishesInheritance(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()

	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)

	school, err := svc.CreateSchool(ctx, CreateSchoolRequest{OrganizationID: org.ID, DisplayName: "Acme North"})
	require.NoError(t, err)

	assert.True(t, engine.Check(1, authz.ResourceStudent, authz.ActionManage, school.Domain()))
}

func TestCreateSchoolRejectsInactiveOrganization(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOrganization(ctx, org.ID))

	_, err = svc.CreateSchool(ctx, CreateSchoolRequest{OrganizationID: org.ID, DisplayName: "Acme North"})
	assert.Error(t, err)
}

func TestAddTeacherToSchoolUnionsRoles(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()

	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)
	school, err := svc.CreateSchool(ctx, CreateSchoolRequest{OrganizationID: org.ID, DisplayName: "Acme North"})
	require.NoError(t, err)

	_, err = svc.AddTeacherToSchool(ctx, AddTeacherToSchoolRequest{SchoolID: school.ID, TeacherID: 2, Roles: []string{"teacher"}})
	require.NoError(t, err)

	membership, err := svc.AddTeacherToSchool(ctx, AddTeacherToSchoolRequest{SchoolID: school.ID, TeacherID: 2, Roles: []string{"school_admin"}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"teacher", "school_admin"}, roleStrings(membership))
	assert.True(t, engine.Check(2, authz.ResourceAssignment, authz.ActionCreate, school.Domain()))
	assert.True(t, engine.Check(2, authz.ResourceTeacher, authz.ActionDelete, school.Domain()))
}

func TestAddTeacherToSchoolRejectsEmptyRoles(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)
	school, err := svc.CreateSchool(ctx, CreateSchoolRequest{OrganizationID: org.ID, DisplayName: "Acme North"})
	require.NoError(t, err)

	_, err = svc.AddTeacherToSchool(ctx, AddTeacherToSchoolRequest{SchoolID: school.ID, TeacherID: 2, Roles: nil})
	assert.Error(t, err)
}

func TestRevokeTeacherFromSchoolIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()
	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)
	school, err := svc.CreateSchool(ctx, CreateSchoolRequest{OrganizationID: org.ID, DisplayName: "Acme North"})
	require.NoError(t, err)
	_, err = svc.AddTeacherToSchool(ctx, AddTeacherToSchoolRequest{SchoolID: school.ID, TeacherID: 2, Roles: []string{"teacher"}})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeTeacherFromSchool(ctx, 2, school.ID))
	assert.False(t, engine.Check(2, authz.ResourceAssignment, authz.ActionCreate, school.Domain()))

	// Second revoke on an already-inactive membership must not error.
	assert.NoError(t, svc.RevokeTeacherFromSchool(ctx, 2, school.ID))
}

func TestDeleteOrganizationCascadesToSchoolsAndGrants(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()
	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)
	school, err := svc.CreateSchool(ctx, CreateSchoolRequest{OrganizationID: org.ID, DisplayName: "Acme North"})
	require.NoError(t, err)
	_, err = svc.AddTeacherToSchool(ctx, AddTeacherToSchoolRequest{SchoolID: school.ID, TeacherID: 2, Roles: []string{"teacher"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrganization(ctx, org.ID))

	assert.False(t, engine.Check(1, authz.ResourceOrganization, authz.ActionManage, org.Domain()))
	assert.False(t, engine.Check(2, authz.ResourceAssignment, authz.ActionCreate, school.Domain()))
	assert.False(t, engine.Check(1, authz.ResourceStudent, authz.ActionManage, school.Domain()))
}

func TestReactivateOrganizationRestoresGrants(t *testing.T) {
	ctx := context.Background()
	svc, _, engine := newTestService()
	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)
	school, err := svc.CreateSchool(ctx, CreateSchoolRequest{OrganizationID: org.ID, DisplayName: "Acme North"})
	require.NoError(t, err)
	_, err = svc.AddTeacherToSchool(ctx, AddTeacherToSchoolRequest{SchoolID: school.ID, TeacherID: 2, Roles: []string{"teacher"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrganization(ctx, org.ID))
	require.NoError(t, svc.ReactivateOrganization(ctx, org.ID))

	assert.True(t, engine.Check(1, authz.ResourceOrganization, authz.ActionManage, org.Domain()))
	assert.True(t, engine.Check(2, authz.ResourceAssignment, authz.ActionCreate, school.Domain()))
	assert.True(t, engine.Check(1, authz.ResourceStudent, authz.ActionManage, school.Domain()))
}

func TestUpdateSettingsMergesRatherThanReplaces(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	org, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{
		DisplayName:  "Acme Academy",
		OwnerID:      1,
		InitSettings: map[string]interface{}{"timezone": "UTC"},
	})
	require.NoError(t, err)

	merged, err := svc.UpdateSettings(ctx, org.ID, map[string]interface{}{"locale": "en-US"})
	require.NoError(t, err)

	assert.Equal(t, "UTC", merged["timezone"])
	assert.Equal(t, "en-US", merged["locale"])
}

func TestListVisibleOrganizationsExcludesInactive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	orgA, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Acme Academy", OwnerID: 1})
	require.NoError(t, err)
	orgB, err := svc.CreateOrganization(ctx, CreateOrganizationRequest{DisplayName: "Beta Academy", OwnerID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOrganization(ctx, orgB.ID))

	visible, err := svc.ListVisibleOrganizations(ctx, 1)
	require.NoError(t, err)

	ids := make([]uint, 0, len(visible))
	for _, o := range visible {
		ids = append(ids, o.ID)
	}
	assert.Contains(t, ids, orgA.ID)
	assert.NotContains(t, ids, orgB.ID)
}

func roleStrings(m *models.TeacherSchool) []string {
	roles := m.RoleSet()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
