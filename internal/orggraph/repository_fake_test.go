package orggraph

import (
	"context"

	"github.com/duotopia/backend/internal/domain/models"
)

// fakeRepository is an in-memory Repository used by service_test.go.
type fakeRepository struct {
	nextID              uint
	organizations       map[uint]*models.Organization
	schools             map[uint]*models.School
	teacherOrganizations map[uint]*models.TeacherOrganization
	teacherSchools      map[uint]*models.TeacherSchool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		organizations:        map[uint]*models.Organization{},
		schools:              map[uint]*models.School{},
		teacherOrganizations: map[uint]*models.TeacherOrganization{},
		teacherSchools:       map[uint]*models.TeacherSchool{},
	}
}

func (f *fakeRepository) newID() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) CreateOrganizationWithOwner(ctx context.Context, org *models.Organization, membership *models.TeacherOrganization) error {
	org.ID = f.newID()
	cp := *org
	f.organizations[org.ID] = &cp

	membership.ID = f.newID()
	membership.OrganizationID = org.ID
	mcp := *membership
	f.teacherOrganizations[membership.ID] = &mcp
	return nil
}

func (f *fakeRepository) FindOrganizationByID(ctx context.Context, id uint) (*models.Organization, error) {
	org, ok := f.organizations[id]
	if !ok {
		return nil, ErrOrganizationNotFound
	}
	cp := *org
	return &cp, nil
}

func (f *fakeRepository) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	if _, ok := f.organizations[org.ID]; !ok {
		return ErrOrganizationNotFound
	}
	cp := *org
	f.organizations[org.ID] = &cp
	return nil
}

func (f *fakeRepository) ListOrganizationsByIDs(ctx context.Context, ids []uint) ([]models.Organization, error) {
	var out []models.Organization
	for _, id := range ids {
		if org, ok := f.organizations[id]; ok {
			out = append(out, *org)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListActiveTeacherOrganizations(ctx context.Context) ([]models.TeacherOrganization, error) {
	var out []models.TeacherOrganization
	for _, m := range f.teacherOrganizations {
		if m.IsActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateSchool(ctx context.Context, school *models.School) error {
	school.ID = f.newID()
	cp := *school
	f.schools[school.ID] = &cp
	return nil
}

func (f *fakeRepository) FindSchoolByID(ctx context.Context, id uint) (*models.School, error) {
	school, ok := f.schools[id]
	if !ok {
		return nil, ErrSchoolNotFound
	}
	cp := *school
	return &cp, nil
}

func (f *fakeRepository) UpdateSchool(ctx context.Context, school *models.School) error {
	if _, ok := f.schools[school.ID]; !ok {
		return ErrSchoolNotFound
	}
	cp := *school
	f.schools[school.ID] = &cp
	return nil
}

func (f *fakeRepository) ListSchoolsByIDs(ctx context.Context, ids []uint) ([]models.School, error) {
	var out []models.School
	for _, id := range ids {
		if sc, ok := f.schools[id]; ok {
			out = append(out, *sc)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListSchoolsByOrganization(ctx context.Context, organizationID uint) ([]models.School, error) {
	var out []models.School
	for _, sc := range f.schools {
		if sc.OrganizationID == organizationID {
			out = append(out, *sc)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListActiveTeacherSchools(ctx context.Context) ([]models.TeacherSchool, error) {
	var out []models.TeacherSchool
	for _, m := range f.teacherSchools {
		if m.IsActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindTeacherSchool(ctx context.Context, teacherID, schoolID uint) (*models.TeacherSchool, error) {
	for _, m := range f.teacherSchools {
		if m.TeacherID == teacherID && m.SchoolID == schoolID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) UpsertTeacherSchool(ctx context.Context, membership *models.TeacherSchool) error {
	if membership.ID == 0 {
		membership.ID = f.newID()
	}
	cp := *membership
	f.teacherSchools[membership.ID] = &cp
	return nil
}

func (f *fakeRepository) FindTeacherOrganization(ctx context.Context, teacherID, organizationID uint) (*models.TeacherOrganization, error) {
	for _, m := range f.teacherOrganizations {
		if m.TeacherID == teacherID && m.OrganizationID == organizationID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) DeactivateOrganizationCascade(ctx context.Context, organizationID uint) ([]models.School, []models.TeacherOrganization, []models.TeacherSchool, error) {
	org, ok := f.organizations[organizationID]
	if !ok {
		return nil, nil, nil, ErrOrganizationNotFound
	}
	org.IsActive = false

	var schools []models.School
	var schoolIDs []uint
	for _, sc := range f.schools {
		if sc.OrganizationID == organizationID {
			sc.IsActive = false
			schools = append(schools, *sc)
			schoolIDs = append(schoolIDs, sc.ID)
		}
	}

	var teacherOrgs []models.TeacherOrganization
	for _, m := range f.teacherOrganizations {
		if m.OrganizationID == organizationID && m.IsActive {
			teacherOrgs = append(teacherOrgs, *m)
			m.IsActive = false
		}
	}

	var teacherSchools []models.TeacherSchool
	for _, m := range f.teacherSchools {
		if !m.IsActive {
			continue
		}
		for _, id := range schoolIDs {
			if m.SchoolID == id {
				teacherSchools = append(teacherSchools, *m)
				m.IsActive = false
				break
			}
		}
	}
	return schools, teacherOrgs, teacherSchools, nil
}

func (f *fakeRepository) ActivateOrganizationCascade(ctx context.Context, organizationID uint) ([]models.School, []models.TeacherOrganization, []models.TeacherSchool, error) {
	org, ok := f.organizations[organizationID]
	if !ok {
		return nil, nil, nil, ErrOrganizationNotFound
	}
	org.IsActive = true

	var schools []models.School
	var schoolIDs []uint
	for _, sc := range f.schools {
		if sc.OrganizationID == organizationID {
			sc.IsActive = true
			schools = append(schools, *sc)
			schoolIDs = append(schoolIDs, sc.ID)
		}
	}

	var teacherOrgs []models.TeacherOrganization
	for _, m := range f.teacherOrganizations {
		if m.OrganizationID == organizationID {
			m.IsActive = true
			teacherOrgs = append(teacherOrgs, *m)
		}
	}

	var teacherSchools []models.TeacherSchool
	for _, m := range f.teacherSchools {
		for _, id := range schoolIDs {
			if m.SchoolID == id {
				m.IsActive = true
				teacherSchools = append(teacherSchools, *m)
			}
		}
	}
	return schools, teacherOrgs, teacherSchools, nil
}
