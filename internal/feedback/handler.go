package feedback

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
)

var validate = validator.New()

// Handler exposes feedback-override endpoints over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler bound to service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires feedback-override endpoints onto router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Patch("/item-progress/:id/feedback", h.OverrideItemFeedback)
	router.Patch("/student-assignments/:id/feedback", h.OverrideAssignmentFeedback)
}

type overrideFeedbackBody struct {
	Text string `json:"text" validate:"required"`
}

func (h *Handler) OverrideItemFeedback(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var body overrideFeedbackBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	if err := h.service.OverrideItemFeedback(c.Context(), principalID(c), id, body.Text); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) OverrideAssignmentFeedback(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var body overrideFeedbackBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	if err := h.service.OverrideAssignmentFeedback(c.Context(), principalID(c), id, body.Text); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid "+param, nil)
	}
	return uint(id), nil
}

// principalID reads the authenticated teacher ID set by internal/middleware.
func principalID(c *fiber.Ctx) uint {
	id, _ := c.Locals("teacher_id").(uint)
	return id
}
