package notify

import (
	"context"
	"fmt"

	"github.com/duotopia/backend/internal/apperr"
	"github.com/duotopia/backend/internal/domain/models"
)

// Queue is the subset of internal/shared/redis.Client the service and
// worker need, narrowed to an interface so tests can fake it.
type Queue interface {
	Enqueue(ctx context.Context, queue string, data interface{}) error
}

const queueName = "notifications:queue"

// Service creates notifications and enqueues them for delivery.
type Service struct {
	repo  Repository
	queue Queue
}

// NewService constructs a Service.
func NewService(repo Repository, queue Queue) *Service {
	return &Service{repo: repo, queue: queue}
}

// Send persists a notification and enqueues it for FCM delivery. A
// queue failure is discarded without being logged or returned; the
// notification row is kept, but the item is never queued for delivery.
func (s *Service) Send(ctx context.Context, teacherID uint, notifType models.NotificationType, title, message string, data map[string]interface{}) error {
	if !notifType.IsValid() {
		return apperr.Validation("invalid notification type", nil)
	}

	notification := &models.Notification{
		TeacherID: teacherID,
		Type:      notifType,
		Title:     title,
		Message:   message,
	}
	if data != nil {
		if err := notification.SetData(data); err != nil {
			return fmt.Errorf("failed to encode notification data: %w", err)
		}
	}
	if err := notification.Validate(); err != nil {
		return apperr.Validation(err.Error(), nil)
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	item := QueueItem{
		NotificationID: notification.ID,
		TeacherID:      teacherID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		Data:           data,
	}
	_ = s.queue.Enqueue(ctx, queueName, item)
	return nil
}

// NotifyGradingComplete sends a grading_complete notification
// summarizing one batch_grade_assignment run (§4.4 supplement D.4).
func (s *Service) NotifyGradingComplete(ctx context.Context, teacherID, assignmentID uint, gradedCount, errorCount int) error {
	title := "Batch grading complete"
	message := fmt.Sprintf("%d student(s) graded", gradedCount)
	if errorCount > 0 {
		message = fmt.Sprintf("%s, %d failed", message, errorCount)
	}
	return s.Send(ctx, teacherID, models.NotificationTypeGradingComplete, title, message, map[string]interface{}{
		"assignment_id": assignmentID,
		"graded_count":  gradedCount,
		"error_count":   errorCount,
	})
}

// NotifyQuotaExceeded sends a quota_exceeded notification reporting
// that a daily limit of limit speech assessments was reached. Nothing
// in internal/speech calls it.
func (s *Service) NotifyQuotaExceeded(ctx context.Context, teacherID uint, limit int) error {
	return s.Send(ctx, teacherID, models.NotificationTypeQuotaExceeded, "Daily quota exceeded",
		fmt.Sprintf("The daily limit of %d speech assessments has been reached", limit), nil)
}

// RegisterFCMToken upserts a device token for push delivery.
func (s *Service) RegisterFCMToken(ctx context.Context, teacherID uint, req RegisterTokenRequest) error {
	if req.Token == "" {
		return errTokenRequired()
	}
	switch req.Platform {
	case "android", "ios", "web":
	default:
		return errInvalidPlatform()
	}
	return s.repo.CreateFCMToken(ctx, &models.FCMToken{
		TeacherID: teacherID,
		Token:     req.Token,
		Platform:  req.Platform,
		IsActive:  true,
	})
}

// ListNotifications returns the most recent notifications for teacherID.
func (s *Service) ListNotifications(ctx context.Context, teacherID uint, limit int) ([]NotificationResponse, error) {
	notifications, err := s.repo.ListByTeacherID(ctx, teacherID, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = toNotificationResponse(&notifications[i])
	}
	return responses, nil
}

// MarkAsRead marks a single notification read.
func (s *Service) MarkAsRead(ctx context.Context, id uint) error {
	return s.repo.MarkAsRead(ctx, id)
}

// UnreadCount reports how many unread notifications teacherID has.
func (s *Service) UnreadCount(ctx context.Context, teacherID uint) (int64, error) {
	return s.repo.GetUnreadCount(ctx, teacherID)
}
