package notify

import (
	"context"

	"github.com/duotopia/backend/internal/domain/models"
)

type fakeRepository struct {
	notifications []models.Notification
	tokens        []models.FCMToken
	nextID        uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{}
}

func (r *fakeRepository) Create(ctx context.Context, n *models.Notification) error {
	r.nextID++
	n.ID = r.nextID
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeRepository) ListByTeacherID(ctx context.Context, teacherID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.TeacherID == teacherID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeRepository) GetUnreadCount(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.TeacherID == teacherID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepository) MarkAsRead(ctx context.Context, id uint) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return errNotificationNotFound()
}

func (r *fakeRepository) CreateFCMToken(ctx context.Context, token *models.FCMToken) error {
	r.tokens = append(r.tokens, *token)
	return nil
}

func (r *fakeRepository) FindActiveFCMTokensByTeacherID(ctx context.Context, teacherID uint) ([]models.FCMToken, error) {
	var out []models.FCMToken
	for _, t := range r.tokens {
		if t.TeacherID == teacherID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepository) DeactivateFCMToken(ctx context.Context, token string) error {
	for i := range r.tokens {
		if r.tokens[i].Token == token {
			r.tokens[i].IsActive = false
		}
	}
	return nil
}

type fakeQueue struct {
	items []queuedItem
}

type queuedItem struct {
	queue string
	data  interface{}
}

func (q *fakeQueue) Enqueue(ctx context.Context, queue string, data interface{}) error {
	q.items = append(q.items, queuedItem{queue: queue, data: data})
	return nil
}
