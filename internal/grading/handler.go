package grading

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
)

// Handler exposes the batch-grading endpoint over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the batch-grade endpoint onto router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Post("/assignments/:id/batch-grade", h.BatchGrade)
}

func (h *Handler) BatchGrade(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return apperr.Validation("invalid id", nil)
	}

	results, err := h.service.BatchGradeAssignment(c.Context(), principalID(c), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": results})
}

// principalID reads the authenticated teacher ID set by internal/middleware.
func principalID(c *fiber.Ctx) uint {
	id, _ := c.Locals("teacher_id").(uint)
	return id
}
