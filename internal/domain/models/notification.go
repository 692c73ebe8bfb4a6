package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// NotificationType represents the type of notification (supplemented
// feature D.4: grading-complete / quota notifications).
type NotificationType string

const (
	NotificationTypeGradingComplete NotificationType = "grading_complete"
	NotificationTypeQuotaExceeded   NotificationType = "quota_exceeded"
)

// IsValid checks if the notification type is valid.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeGradingComplete, NotificationTypeQuotaExceeded:
		return true
	}
	return false
}

// Notification is a teacher-facing notification record.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	TeacherID uint             `gorm:"index;not null" json:"teacher_id"`
	Type      NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Data      string           `gorm:"type:jsonb" json:"data"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	Teacher Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// TableName specifies the table name for Notification.
func (Notification) TableName() string {
	return "notifications"
}

// Validate validates the notification data.
func (n *Notification) Validate() error {
	if n.TeacherID == 0 {
		return errors.New("teacher_id is required")
	}
	if !n.Type.IsValid() {
		return errors.New("type is invalid")
	}
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(n.Message) == "" {
		return errors.New("message is required")
	}
	return nil
}

// MarkAsRead marks the notification as read.
func (n *Notification) MarkAsRead() {
	n.IsRead = true
}

// SetData sets the additional JSON data.
func (n *Notification) SetData(data map[string]interface{}) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	n.Data = string(encoded)
	return nil
}

// GetData retrieves the additional JSON data.
func (n *Notification) GetData() (map[string]interface{}, error) {
	if n.Data == "" {
		return nil, nil
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(n.Data), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// FCMToken represents a teacher's FCM device token for push delivery.
type FCMToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeacherID uint      `gorm:"index;not null" json:"teacher_id"`
	Token     string    `gorm:"type:varchar(500);not null" json:"token"`
	Platform  string    `gorm:"type:varchar(20);not null" json:"platform"` // android, ios, web
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Teacher Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// TableName specifies the table name for FCMToken.
func (FCMToken) TableName() string {
	return "fcm_tokens"
}

// Validate validates the FCM token data.
func (f *FCMToken) Validate() error {
	if f.TeacherID == 0 {
		return errors.New("teacher_id is required")
	}
	if strings.TrimSpace(f.Token) == "" {
		return errors.New("token is required")
	}
	switch f.Platform {
	case "android", "ios", "web":
	default:
		return errors.New("platform must be android, ios, or web")
	}
	return nil
}

// Deactivate deactivates the FCM token.
func (f *FCMToken) Deactivate() {
	f.IsActive = false
}
