package speech

// Credential is the short-lived provider credential returned by
// IssueCredential (§4.3.a): `{ token, region, expires_in }`.
type Credential struct {
	Token     string `json:"token"`
	Region    string `json:"region"`
	ExpiresIn int64  `json:"expires_in"`
}

// ScoreBlob is the client-reported result of a direct-to-provider
// assessment (§4.3.b), as echoed back in analysis_json on upload.
type ScoreBlob struct {
	Pronunciation  float64 `json:"pronunciation"`
	Accuracy       float64 `json:"accuracy"`
	Fluency        float64 `json:"fluency"`
	Completeness   float64 `json:"completeness"`
	RecognizedText string  `json:"recognized_text"`
}

// UploadAnalysisRequest is the upload_analysis operation's input
// (§4.3.c). ProgressID is optional: absent for a teacher preview-mode
// call, which persists nothing.
type UploadAnalysisRequest struct {
	Principal    Principal
	Audio        []byte
	AnalysisJSON string
	LatencyMS    int
	AnalysisID   string
	ProgressID   *uint
}

// UploadAnalysisResult is returned from a successful (possibly
// idempotent no-op) upload.
type UploadAnalysisResult struct {
	Persisted bool
	Deduped   bool
}
