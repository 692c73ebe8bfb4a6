package notify

import (
	"time"

	"github.com/duotopia/backend/internal/domain/models"
)

// QueueItem is the JSON shape stored on the Redis notification queue.
type QueueItem struct {
	NotificationID uint                    `json:"notification_id"`
	TeacherID      uint                    `json:"teacher_id"`
	Type           models.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Data           map[string]interface{}  `json:"data,omitempty"`
	RetryCount     int                     `json:"retry_count"`
	CreatedAt      time.Time               `json:"created_at"`
}

// RegisterTokenRequest registers a device for push delivery.
type RegisterTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// NotificationResponse is the read-facing shape of a Notification.
type NotificationResponse struct {
	ID        uint                    `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

func toNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
