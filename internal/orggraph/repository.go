package orggraph

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/duotopia/backend/internal/domain/models"
)

// Repository defines the persistence operations the organization graph
// service needs. Every mutating method that must keep more than one row
// consistent opens its own transaction; the service layer never reaches
// for *gorm.DB directly.
type Repository interface {
	CreateOrganizationWithOwner(ctx context.Context, org *models.Organization, membership *models.TeacherOrganization) error
	FindOrganizationByID(ctx context.Context, id uint) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, org *models.Organization) error
	ListOrganizationsByIDs(ctx context.Context, ids []uint) ([]models.Organization, error)
	ListActiveTeacherOrganizations(ctx context.Context) ([]models.TeacherOrganization, error)

	CreateSchool(ctx context.Context, school *models.School) error
	FindSchoolByID(ctx context.Context, id uint) (*models.School, error)
	UpdateSchool(ctx context.Context, school *models.School) error
	ListSchoolsByIDs(ctx context.Context, ids []uint) ([]models.School, error)
	ListSchoolsByOrganization(ctx context.Context, organizationID uint) ([]models.School, error)
	ListActiveTeacherSchools(ctx context.Context) ([]models.TeacherSchool, error)

	FindTeacherSchool(ctx context.Context, teacherID, schoolID uint) (*models.TeacherSchool, error)
	UpsertTeacherSchool(ctx context.Context, membership *models.TeacherSchool) error
	FindTeacherOrganization(ctx context.Context, teacherID, organizationID uint) (*models.TeacherOrganization, error)

	// DeactivateOrganizationCascade deactivates the organization, every
	// school it owns, and every membership row attached to either, all
	// inside one transaction (§4.2 delete_organization). Every school of
	// the organization (active or not) and the membership rows that WERE
	// active are captured before the update and returned, since querying
	// "is_active = true" afterward would find nothing — the caller needs
	// this set to revoke the matching authz grants.
	DeactivateOrganizationCascade(ctx context.Context, organizationID uint) ([]models.School, []models.TeacherOrganization, []models.TeacherSchool, error)

	// ActivateOrganizationCascade is the inverse: reactivates the
	// organization and every school/membership row it previously owned.
	ActivateOrganizationCascade(ctx context.Context, organizationID uint) ([]models.School, []models.TeacherOrganization, []models.TeacherSchool, error)
}

var (
	// ErrOrganizationNotFound mirrors gorm.ErrRecordNotFound for callers
	// that want to branch on "missing" without importing gorm.
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSchoolNotFound       = errors.New("school not found")
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs the GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrganizationWithOwner(ctx context.Context, org *models.Organization, membership *models.TeacherOrganization) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		membership.OrganizationID = org.ID
		return tx.Create(membership).Error
	})
}

func (r *repository) FindOrganizationByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	result := r.db.WithContext(ctx).Save(org)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

func (r *repository) ListOrganizationsByIDs(ctx context.Context, ids []uint) ([]models.Organization, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var orgs []models.Organization
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("display_name").Find(&orgs).Error
	return orgs, err
}

func (r *repository) ListActiveTeacherOrganizations(ctx context.Context) ([]models.TeacherOrganization, error) {
	var rows []models.TeacherOrganization
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error
	return rows, err
}

func (r *repository) CreateSchool(ctx context.Context, school *models.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *repository) FindSchoolByID(ctx context.Context, id uint) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return &school, nil
}

func (r *repository) UpdateSchool(ctx context.Context, school *models.School) error {
	result := r.db.WithContext(ctx).Save(school)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}
	return nil
}

func (r *repository) ListSchoolsByIDs(ctx context.Context, ids []uint) ([]models.School, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var schools []models.School
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("display_name").Find(&schools).Error
	return schools, err
}

func (r *repository) ListSchoolsByOrganization(ctx context.Context, organizationID uint) ([]models.School, error) {
	var schools []models.School
	err := r.db.WithContext(ctx).Where("organization_id = ?", organizationID).Order("display_name").Find(&schools).Error
	return schools, err
}

func (r *repository) ListActiveTeacherSchools(ctx context.Context) ([]models.TeacherSchool, error) {
	var rows []models.TeacherSchool
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error
	return rows, err
}

func (r *repository) FindTeacherSchool(ctx context.Context, teacherID, schoolID uint) (*models.TeacherSchool, error) {
	var row models.TeacherSchool
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND school_id = ?", teacherID, schoolID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpsertTeacherSchool(ctx context.Context, membership *models.TeacherSchool) error {
	if membership.ID == 0 {
		return r.db.WithContext(ctx).Create(membership).Error
	}
	return r.db.WithContext(ctx).Save(membership).Error
}

func (r *repository) FindTeacherOrganization(ctx context.Context, teacherID, organizationID uint) (*models.TeacherOrganization, error) {
	var row models.TeacherOrganization
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND organization_id = ?", teacherID, organizationID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) DeactivateOrganizationCascade(ctx context.Context, organizationID uint) ([]models.School, []models.TeacherOrganization, []models.TeacherSchool, error) {
	var schools []models.School
	var teacherOrgs []models.TeacherOrganization
	var teacherSchools []models.TeacherSchool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", organizationID).Find(&schools).Error; err != nil {
			return err
		}
		schoolIDs := make([]uint, len(schools))
		for i, s := range schools {
			schoolIDs[i] = s.ID
		}

		// Capture the rows that are still active before flipping them,
		// so the caller can revoke the exact grants they imply.
		if err := tx.Where("organization_id = ? AND is_active = ?", organizationID, true).Find(&teacherOrgs).Error; err != nil {
			return err
		}
		if len(schoolIDs) > 0 {
			if err := tx.Where("school_id IN ? AND is_active = ?", schoolIDs, true).Find(&teacherSchools).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Organization{}).Where("id = ?", organizationID).Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.School{}).Where("organization_id = ?", organizationID).Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TeacherOrganization{}).Where("organization_id = ?", organizationID).Update("is_active", false).Error; err != nil {
			return err
		}
		if len(schoolIDs) > 0 {
			if err := tx.Model(&models.TeacherSchool{}).Where("school_id IN ?", schoolIDs).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return schools, teacherOrgs, teacherSchools, err
}

func (r *repository) ActivateOrganizationCascade(ctx context.Context, organizationID uint) ([]models.School, []models.TeacherOrganization, []models.TeacherSchool, error) {
	var schools []models.School
	var teacherOrgs []models.TeacherOrganization
	var teacherSchools []models.TeacherSchool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Organization{}).Where("id = ?", organizationID).Update("is_active", true).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", organizationID).Find(&schools).Error; err != nil {
			return err
		}
		schoolIDs := make([]uint, len(schools))
		for i, s := range schools {
			schoolIDs[i] = s.ID
		}
		if len(schoolIDs) > 0 {
			if err := tx.Model(&models.School{}).Where("id IN ?", schoolIDs).Update("is_active", true).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.TeacherSchool{}).Where("school_id IN ?", schoolIDs).Update("is_active", true).Error; err != nil {
				return err
			}
			if err := tx.Where("school_id IN ? AND is_active = ?", schoolIDs, true).Find(&teacherSchools).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.TeacherOrganization{}).Where("organization_id = ?", organizationID).Update("is_active", true).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ? AND is_active = ?", organizationID, true).Find(&teacherOrgs).Error; err != nil {
			return err
		}
		return nil
	})
	return schools, teacherOrgs, teacherSchools, err
}
