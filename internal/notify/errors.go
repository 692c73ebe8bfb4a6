package notify

import "github.com/duotopia/backend/internal/apperr"

func errNotificationNotFound() error {
	return apperr.NotFound("notification not found")
}

func errTokenRequired() error {
	return apperr.Validation("token is required", nil)
}

func errInvalidPlatform() error {
	return apperr.Validation("platform must be android, ios, or web", nil)
}
