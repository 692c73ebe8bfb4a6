package grading

import "github.com/duotopia/backend/internal/apperr"

func errAssignmentNotFound() error {
	return apperr.NotFound("assignment not found")
}
