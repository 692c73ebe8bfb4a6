// Package notify implements the grading-complete / quota-exceeded push
// notification pipeline (supplemented feature D.4): a notification row
// is written for history/unread-count, then queued onto Redis for a
// background worker to deliver via FCM with exponential backoff.
package notify

import (
	"context"

	"gorm.io/gorm"

	"github.com/duotopia/backend/internal/domain/models"
)

// Repository persists notifications and FCM device tokens.
type Repository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByTeacherID(ctx context.Context, teacherID uint, limit int) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, teacherID uint) (int64, error)
	MarkAsRead(ctx context.Context, id uint) error

	CreateFCMToken(ctx context.Context, token *models.FCMToken) error
	FindActiveFCMTokensByTeacherID(ctx context.Context, teacherID uint) ([]models.FCMToken, error)
	DeactivateFCMToken(ctx context.Context, token string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListByTeacherID(ctx context.Context, teacherID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *repository) GetUnreadCount(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("teacher_id = ? AND is_read = ?", teacherID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkAsRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errNotificationNotFound()
	}
	return nil
}

func (r *repository) CreateFCMToken(ctx context.Context, token *models.FCMToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *repository) FindActiveFCMTokensByTeacherID(ctx context.Context, teacherID uint) ([]models.FCMToken, error) {
	var tokens []models.FCMToken
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND is_active = ?", teacherID, true).
		Find(&tokens).Error
	return tokens, err
}

func (r *repository) DeactivateFCMToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&models.FCMToken{}).
		Where("token = ?", token).
		Update("is_active", false).Error
}
