package identity

import "github.com/duotopia/backend/internal/apperr"

func errTeacherNotFound() error {
	return apperr.NotFound("teacher not found")
}

func errStudentNotFound() error {
	return apperr.NotFound("student not found")
}

func errEmailTaken() error {
	return apperr.Conflict("a teacher with this email already exists")
}

func errInvalidCredentials() error {
	return apperr.Auth("invalid email or password")
}

func errAccountInactive() error {
	return apperr.Auth("account is inactive")
}

func errPasswordMismatch() error {
	return apperr.Validation("current password is incorrect", nil)
}

func errSamePassword() error {
	return apperr.Validation("new password must differ from the current password", nil)
}

func errEmailRequired() error {
	return apperr.Validation("email is required", map[string]string{"email": "required"})
}

func errDisplayNameRequired() error {
	return apperr.Validation("display name is required", map[string]string{"display_name": "required"})
}

func errNameRequired() error {
	return apperr.Validation("name is required", map[string]string{"name": "required"})
}
