package speech

import "container/list"

// retryQueueMaxItems and retryQueueMaxBytes bound the client retry
// store (§4.3.d): "≤ 10 MB, ≤ 10 items, FIFO eviction".
const (
	retryQueueMaxItems = 10
	retryQueueMaxBytes = 10 * 1024 * 1024
	retryQueueDropAt   = 2 // retry_count >= 2 is surfaced as permanently failed and dropped
)

// PendingUpload is one failed upload awaiting retry, mirroring the
// documented client-side shape (§4.3.d).
type PendingUpload struct {
	AnalysisID   string
	Audio        []byte
	AnalysisJSON string
	LatencyMS    int
	ProgressID   *uint
	RetryCount   int
}

func (p PendingUpload) size() int {
	return len(p.Audio) + len(p.AnalysisJSON)
}

// RetryQueue is a reference implementation of the bounded local retry
// store described in §4.3.d, used by client-simulating tests and
// dev tooling to reproduce the documented eviction/drop behavior;
// the server never holds or drains this queue itself, since server
// idempotency on AnalysisID is what makes client-side retries safe.
type RetryQueue struct {
	items      *list.List // of PendingUpload
	totalBytes int
}

// NewRetryQueue constructs an empty RetryQueue.
func NewRetryQueue() *RetryQueue {
	return &RetryQueue{items: list.New()}
}

// Push enqueues a failed upload, evicting the oldest entries (FIFO)
// if the bounded size or item count would be exceeded.
func (q *RetryQueue) Push(item PendingUpload) {
	q.items.PushBack(item)
	q.totalBytes += item.size()

	for q.items.Len() > retryQueueMaxItems || q.totalBytes > retryQueueMaxBytes {
		front := q.items.Front()
		if front == nil {
			break
		}
		evicted := front.Value.(PendingUpload)
		q.totalBytes -= evicted.size()
		q.items.Remove(front)
	}
}

// Len reports the number of items currently queued.
func (q *RetryQueue) Len() int {
	return q.items.Len()
}

// Items returns every queued item in FIFO order, oldest first.
func (q *RetryQueue) Items() []PendingUpload {
	out := make([]PendingUpload, 0, q.items.Len())
	for e := q.items.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(PendingUpload))
	}
	return out
}

// RetryResult is the outcome of retrying one queued item.
type RetryResult struct {
	AnalysisID        string
	Succeeded         bool
	PermanentlyFailed bool
}

// RetryAll attempts attempt against every queued item in order
// (§4.3.d "on explicit submit assignment action, the client retries
// every pending item in order"). On success the item is dropped; on
// failure its retry_count increments, and once retry_count reaches
// retryQueueDropAt the item is dropped and reported permanently
// failed.
func (q *RetryQueue) RetryAll(attempt func(PendingUpload) bool) []RetryResult {
	results := make([]RetryResult, 0, q.items.Len())

	var next *list.Element
	for e := q.items.Front(); e != nil; e = next {
		next = e.Next()
		item := e.Value.(PendingUpload)

		if attempt(item) {
			results = append(results, RetryResult{AnalysisID: item.AnalysisID, Succeeded: true})
			q.totalBytes -= item.size()
			q.items.Remove(e)
			continue
		}

		item.RetryCount++
		if item.RetryCount >= retryQueueDropAt {
			results = append(results, RetryResult{AnalysisID: item.AnalysisID, PermanentlyFailed: true})
			q.totalBytes -= item.size()
			q.items.Remove(e)
			continue
		}

		e.Value = item
		results = append(results, RetryResult{AnalysisID: item.AnalysisID})
	}

	return results
}
