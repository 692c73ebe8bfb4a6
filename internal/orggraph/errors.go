package orggraph

import (
	"strconv"

	"github.com/duotopia/backend/internal/apperr"
)

func errOrganizationNotFound(id uint) error {
	return apperr.NotFound("organization not found: " + uintStr(id))
}

func errSchoolNotFound(id uint) error {
	return apperr.NotFound("school not found: " + uintStr(id))
}

func errNoRolesProvided() error {
	return apperr.Validation("at least one role must be provided", nil)
}

func errInvalidSchoolRole(role string) error {
	return apperr.Validation("invalid school role: "+role, nil)
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
