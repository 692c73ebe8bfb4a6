package assignment

import "github.com/duotopia/backend/internal/apperr"

func errClassroomNotFound() error {
	return apperr.NotFound("classroom not found")
}

func errContentNotFound() error {
	return apperr.NotFound("content not found")
}

func errAssignmentNotFound() error {
	return apperr.NotFound("assignment not found")
}

func errForbidden() error {
	return apperr.Permission("not permitted on this classroom")
}

func errNoContentItems() error {
	return apperr.Validation("at least one content item is required", nil)
}

func errNameRequired() error {
	return apperr.Validation("name is required", nil)
}

func errTitleRequired() error {
	return apperr.Validation("title is required", nil)
}

func errEmptyContentSelection() error {
	return apperr.Validation("at least one content is required to issue an assignment", nil)
}
