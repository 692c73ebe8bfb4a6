// Package httpclient provides the process-wide HTTP client used to call
// the external pronunciation-assessment provider (§4.4: the server
// holds a long-lived provider key and calls the provider directly
// during batch grading). A single shared client reuses connections
// across every dispatched worker rather than constructing one per call.
package httpclient

import (
	"net/http"
	"time"
)

// Shared is the process-wide client: a package-level constructor
// returns a thin wrapper around a standard-library client, configured
// once at startup, the same shape as fcm.Client and redis.Client.
type Shared struct {
	client *http.Client
}

// New builds a Shared client with connection pooling tuned for many
// concurrent short-lived provider calls (bounded by the worker pool
// size, never by the HTTP client itself).
func New() *Shared {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Shared{
		client: &http.Client{
			Transport: transport,
		},
	}
}

// Do executes req using the shared client. Callers are expected to
// attach a context deadline (§4.4: 30s per item) to req themselves.
func (s *Shared) Do(req *http.Request) (*http.Response, error) {
	return s.client.Do(req)
}

// Client exposes the underlying *http.Client for callers (e.g.
// gobreaker-wrapped provider clients) that need to compose it further.
func (s *Shared) Client() *http.Client {
	return s.client
}
