package notify

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
)

// Handler exposes the teacher-facing notification surface over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the notification endpoints onto router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/notifications", h.List)
	router.Post("/notifications/:id/read", h.MarkAsRead)
	router.Post("/notifications/fcm-token", h.RegisterFCMToken)
}

func (h *Handler) List(c *fiber.Ctx) error {
	teacherID := principalID(c)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	notifications, err := h.service.ListNotifications(c.Context(), teacherID, limit)
	if err != nil {
		return err
	}
	unread, err := h.service.UnreadCount(c.Context(), teacherID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	}})
}

func (h *Handler) MarkAsRead(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return apperr.Validation("invalid id", nil)
	}
	if err := h.service.MarkAsRead(c.Context(), uint(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) RegisterFCMToken(c *fiber.Ctx) error {
	var req RegisterTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body", nil)
	}
	if err := h.service.RegisterFCMToken(c.Context(), principalID(c), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func principalID(c *fiber.Ctx) uint {
	id, _ := c.Locals("teacher_id").(uint)
	return id
}
