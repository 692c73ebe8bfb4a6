package speech

import "github.com/duotopia/backend/internal/apperr"

func errProgressNotFound() error {
	return apperr.NotFound("student item progress not found")
}

func errAnalysisJSONRequired() error {
	return apperr.Validation("analysis_json is required", map[string]string{"analysis_json": "required"})
}

func errAnalysisIDRequired() error {
	return apperr.Validation("analysis_id is required", map[string]string{"analysis_id": "required"})
}

func errAudioRequired() error {
	return apperr.Validation("audio_file is required", map[string]string{"audio_file": "required"})
}
