// Package assessment defines the pronunciation-assessment provider
// contract (§4.3.b) and a circuit-breaker-wrapped HTTP implementation
// used server-side during batch auto-grading (§4.4). The browser-side
// direct-assessment flow is out of scope here — this package is only
// the server-side caller used when C3 dispatches an assessment on the
// shared provider identity.
package assessment

import (
	"context"
	"time"
)

// Score is the four-dimension result of one assessment call, each
// value in [0,100] (§3 StudentItemProgress score dimensions).
type Score struct {
	Accuracy      float64
	Fluency       float64
	Pronunciation float64
	Completeness  float64
}

// Result is the full response from an assessment call: the score
// blob, the recognized text, and any per-word detail the provider
// returned verbatim for storage in StudentItemProgress.RawAssessment.
type Result struct {
	Score          Score
	RecognizedText string
	RawJSON        string
	LatencyMS      int64
}

// Request is one assessment call: a reference text and the recorded
// audio to compare it against.
type Request struct {
	ReferenceText string
	Audio         []byte
	ContentType   string
}

// Provider is the external pronunciation-assessment contract (§4.3.b).
// Implementations must respect ctx's deadline — batch grading attaches
// a 30s timeout per item (§4.4) and treats context.DeadlineExceeded as
// a failure with no partial writes.
type Provider interface {
	Assess(ctx context.Context, req Request) (*Result, error)
}

// DefaultTimeout is the per-item assessment timeout (§4.4 "Timeout per
// item: 30 s"). internal/grading passes a context already carrying
// this deadline; providers should not impose a shorter one themselves
// beyond what ctx already enforces.
const DefaultTimeout = 30 * time.Second
