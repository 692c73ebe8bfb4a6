package assessment

import "context"

// MockProvider is a deterministic, in-memory Provider used by
// internal/grading's tests and by teacher-preview mode in development.
// Scripted responses are consumed in call order; once exhausted, every
// further call returns DefaultScore.
type MockProvider struct {
	Responses []MockResponse
	calls     int
	DefaultScore Score
}

// MockResponse scripts one call's outcome: either a successful Result
// or an error, never both.
type MockResponse struct {
	Result *Result
	Err    error
}

// NewMockProvider constructs a MockProvider with a safe default score
// for any call beyond the scripted responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{
		Responses:    responses,
		DefaultScore: Score{Accuracy: 85, Fluency: 85, Pronunciation: 85, Completeness: 85},
	}
}

func (m *MockProvider) Assess(ctx context.Context, req Request) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	idx := m.calls
	m.calls++
	if idx < len(m.Responses) {
		resp := m.Responses[idx]
		if resp.Err != nil {
			return nil, resp.Err
		}
		return resp.Result, nil
	}

	return &Result{
		Score:          m.DefaultScore,
		RecognizedText: req.ReferenceText,
		RawJSON:        `{}`,
		LatencyMS:      1,
	}, nil
}

// Calls reports how many times Assess has been invoked.
func (m *MockProvider) Calls() int {
	return m.calls
}
