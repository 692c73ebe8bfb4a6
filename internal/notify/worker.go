package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/duotopia/backend/internal/shared/fcm"
)

// Dequeuer is the subset of internal/shared/redis.Client the worker
// needs for reading the queue.
type Dequeuer interface {
	Dequeue(ctx context.Context, queue string, timeout time.Duration) (string, error)
	DequeueNonBlocking(ctx context.Context, queue string) (string, error)
	Enqueue(ctx context.Context, queue string, data interface{}) error
}

// FCMSender is the subset of internal/shared/fcm.Client the worker
// needs to deliver a push notification.
type FCMSender interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*fcm.MulticastResult, error)
}

// RetryConfig controls the exponential backoff applied to failed
// deliveries.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the standard backoff schedule: 5 retries,
// starting at 1s, doubling up to a 5 minute cap.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    5,
		InitialDelay:  1 * time.Second,
		MaxDelay:      5 * time.Minute,
		BackoffFactor: 2.0,
	}
}

// Worker drains the Redis notification queue and delivers each item
// via FCM multicast, rescheduling failed deliveries with exponential
// backoff.
type Worker struct {
	queue       Dequeuer
	fcm         FCMSender
	repo        Repository
	retryConfig RetryConfig
	stopCh      chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
}

// NewWorker constructs a Worker with the default retry configuration.
func NewWorker(queue Dequeuer, fcm FCMSender, repo Repository) *Worker {
	return &Worker{queue: queue, fcm: fcm, repo: repo, retryConfig: DefaultRetryConfig(), stopCh: make(chan struct{})}
}

// Start begins the background processing loop.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.wg.Add(1)
	go w.processLoop()
}

// Stop halts the processing loop and waits for it to drain.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Worker) processLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		default:
			w.processOne(context.Background())
		}
	}
}

func (w *Worker) processOne(ctx context.Context) {
	data, err := w.queue.Dequeue(ctx, queueName, 5*time.Second)
	if err != nil {
		log.Printf("notify: dequeue error: %v", err)
		return
	}
	if data == "" {
		return
	}

	var item QueueItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		log.Printf("notify: malformed queue item: %v", err)
		return
	}

	if err := w.deliver(ctx, &item); err != nil {
		w.scheduleRetry(ctx, &item)
	}
}

// ProcessPendingNotifications drains up to maxItems from the queue
// synchronously, for one-shot runs and manual replay.
func (w *Worker) ProcessPendingNotifications(ctx context.Context, maxItems int) (int, error) {
	processed := 0
	for i := 0; i < maxItems; i++ {
		data, err := w.queue.DequeueNonBlocking(ctx, queueName)
		if err != nil {
			return processed, err
		}
		if data == "" {
			break
		}
		var item QueueItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			continue
		}
		if err := w.deliver(ctx, &item); err != nil {
			w.scheduleRetry(ctx, &item)
		}
		processed++
	}
	return processed, nil
}

func (w *Worker) deliver(ctx context.Context, item *QueueItem) error {
	tokens, err := w.repo.FindActiveFCMTokensByTeacherID(ctx, item.TeacherID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	deviceTokens := make([]string, len(tokens))
	for i, t := range tokens {
		deviceTokens[i] = t.Token
	}

	data := map[string]string{
		"notification_id": fmt.Sprintf("%d", item.NotificationID),
		"type":             string(item.Type),
	}

	result, err := w.fcm.SendMulticast(ctx, deviceTokens, item.Title, item.Message, data)
	if err != nil {
		return err
	}

	for _, failed := range result.FailedTokens {
		if err := w.repo.DeactivateFCMToken(ctx, failed); err != nil {
			log.Printf("notify: failed to deactivate token: %v", err)
		}
	}
	return nil
}

func (w *Worker) scheduleRetry(ctx context.Context, item *QueueItem) {
	item.RetryCount++
	if item.RetryCount > w.retryConfig.MaxRetries {
		log.Printf("notify: notification %d exceeded max retries, giving up", item.NotificationID)
		return
	}

	delay := w.backoff(item.RetryCount)
	go func() {
		time.Sleep(delay)
		if err := w.queue.Enqueue(ctx, queueName, item); err != nil {
			log.Printf("notify: failed to re-queue notification %d: %v", item.NotificationID, err)
		}
	}()
}

func (w *Worker) backoff(retryCount int) time.Duration {
	delay := float64(w.retryConfig.InitialDelay) * math.Pow(w.retryConfig.BackoffFactor, float64(retryCount-1))
	if delay > float64(w.retryConfig.MaxDelay) {
		delay = float64(w.retryConfig.MaxDelay)
	}
	return time.Duration(delay)
}
