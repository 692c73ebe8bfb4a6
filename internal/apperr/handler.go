package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler maps the apperr taxonomy (and any bare *fiber.Error
// escaping a handler) onto the process-wide {success, error} JSON
// envelope every response uses.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		body := fiber.Map{
			"code":    appErr.Kind,
			"message": appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		if appErr.RateLimit != nil {
			body["limit"] = appErr.RateLimit.Limit
			body["reset_at"] = appErr.RateLimit.ResetAt
			body["suggestion"] = appErr.RateLimit.Suggestion
		}
		return c.Status(appErr.StatusCode()).JSON(fiber.Map{
			"success": false,
			"error":   body,
		})
	}

	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}
