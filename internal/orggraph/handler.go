package orggraph

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
)

var validate = validator.New()

// Handler exposes the organization graph service over HTTP. Errors are
// returned as-is and rendered by the process-wide apperr.FiberErrorHandler,
// so handlers here never format an error response directly.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler bound to service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires organization/school endpoints onto router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Post("/organizations", h.CreateOrganization)
	router.Get("/organizations", h.ListOrganizations)
	router.Get("/organizations/:id", h.GetOrganization)
	router.Delete("/organizations/:id", h.DeleteOrganization)
	router.Post("/organizations/:id/reactivate", h.ReactivateOrganization)
	router.Get("/organizations/:id/settings", h.GetSettings)
	router.Patch("/organizations/:id/settings", h.UpdateSettings)

	router.Post("/schools", h.CreateSchool)
	router.Get("/schools", h.ListSchools)
	router.Get("/schools/:id", h.GetSchool)
	router.Post("/schools/:schoolID/teachers", h.AddTeacherToSchool)
	router.Delete("/schools/:schoolID/teachers/:teacherID", h.RemoveTeacherFromSchool)
}

type createOrganizationBody struct {
	DisplayName string                 `json:"display_name" validate:"required,max=255"`
	Settings    map[string]interface{} `json:"settings"`
}

func (h *Handler) CreateOrganization(c *fiber.Ctx) error {
	var body createOrganizationBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	org, err := h.service.CreateOrganization(c.Context(), CreateOrganizationRequest{
		DisplayName:  body.DisplayName,
		OwnerID:      principalID(c),
		InitSettings: body.Settings,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": org})
}

func (h *Handler) ListOrganizations(c *fiber.Ctx) error {
	orgs, err := h.service.ListVisibleOrganizations(c.Context(), principalID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": orgs})
}

func (h *Handler) GetOrganization(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	org, err := h.service.GetOrganization(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": org})
}

func (h *Handler) DeleteOrganization(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteOrganization(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) ReactivateOrganization(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.ReactivateOrganization(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) GetSettings(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	settings, err := h.service.GetSettings(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var patch map[string]interface{}
	if err := c.BodyParser(&patch); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	settings, err := h.service.UpdateSettings(c.Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

type createSchoolBody struct {
	OrganizationID uint   `json:"organization_id" validate:"required"`
	DisplayName    string `json:"display_name" validate:"required,max=255"`
}

func (h *Handler) CreateSchool(c *fiber.Ctx) error {
	var body createSchoolBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	school, err := h.service.CreateSchool(c.Context(), CreateSchoolRequest{
		OrganizationID: body.OrganizationID,
		DisplayName:    body.DisplayName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": school})
}

func (h *Handler) ListSchools(c *fiber.Ctx) error {
	schools, err := h.service.ListVisibleSchools(c.Context(), principalID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": schools})
}

func (h *Handler) GetSchool(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	school, err := h.service.GetSchool(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": school})
}

type addTeacherToSchoolBody struct {
	TeacherID uint     `json:"teacher_id" validate:"required"`
	Roles     []string `json:"roles" validate:"required,min=1,dive,oneof=school_admin teacher"`
}

func (h *Handler) AddTeacherToSchool(c *fiber.Ctx) error {
	schoolID, err := parseID(c, "schoolID")
	if err != nil {
		return err
	}
	var body addTeacherToSchoolBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	membership, err := h.service.AddTeacherToSchool(c.Context(), AddTeacherToSchoolRequest{
		SchoolID:  schoolID,
		TeacherID: body.TeacherID,
		Roles:     body.Roles,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": membership})
}

func (h *Handler) RemoveTeacherFromSchool(c *fiber.Ctx) error {
	schoolID, err := parseID(c, "schoolID")
	if err != nil {
		return err
	}
	teacherID, err := parseID(c, "teacherID")
	if err != nil {
		return err
	}
	if err := h.service.RevokeTeacherFromSchool(c.Context(), teacherID, schoolID); err != nil {
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
