package assignment

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
)

var validate = validator.New()

// Handler exposes classroom/content/assignment operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler bound to service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires classroom/content/assignment endpoints onto router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Post("/classrooms", h.CreateClassroom)
	router.Get("/classrooms", h.ListClassrooms)
	router.Get("/classrooms/:id", h.GetClassroom)
	router.Post("/classrooms/:id/school-link", h.LinkToSchool)
	router.Delete("/classrooms/:id/school-link", h.UnlinkFromSchool)

	router.Post("/contents", h.CreateContent)
	router.Post("/contents/:id/items", h.AddContentItems)
	router.Post("/contents/:id/items/import", h.ImportContentItems)

	router.Post("/assignments", h.IssueAssignment)
	router.Get("/assignments/:id", h.GetAssignment)
	router.Get("/classrooms/:id/assignments", h.ListAssignments)
}

type createClassroomBody struct {
	Name     string `json:"name" validate:"required,max=255"`
	SchoolID *uint  `json:"school_id"`
}

func (h *Handler) CreateClassroom(c *fiber.Ctx) error {
	var body createClassroomBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	classroom, err := h.service.CreateClassroom(c.Context(), principalID(c), CreateClassroomRequest{
		Name:     body.Name,
		SchoolID: body.SchoolID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": classroom})
}

func (h *Handler) ListClassrooms(c *fiber.Ctx) error {
	classrooms, err := h.service.ListOwnedClassrooms(c.Context(), principalID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": classrooms})
}

func (h *Handler) GetClassroom(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	classroom, err := h.service.GetClassroom(c.Context(), principalID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": classroom})
}

type schoolLinkBody struct {
	SchoolID uint `json:"school_id" validate:"required"`
}

func (h *Handler) LinkToSchool(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var body schoolLinkBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}
	if err := h.service.LinkToSchool(c.Context(), principalID(c), id, body.SchoolID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) UnlinkFromSchool(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.UnlinkFromSchool(c.Context(), principalID(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

type createContentBody struct {
	LessonID uint   `json:"lesson_id" validate:"required"`
	Type     string `json:"type" validate:"required"`
}

func (h *Handler) CreateContent(c *fiber.Ctx) error {
	var body createContentBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}
	content, err := h.service.CreateContent(c.Context(), CreateContentRequest{LessonID: body.LessonID, Type: body.Type})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": content})
}

type contentItemBody struct {
	ReferenceText     string  `json:"reference_text" validate:"required"`
	Translation       *string `json:"translation"`
	ReferenceAudioURL *string `json:"reference_audio_url"`
}

type addContentItemsBody struct {
	Items []contentItemBody `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) AddContentItems(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var body addContentItemsBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	inputs := make([]ContentItemInput, len(body.Items))
	for i, item := range body.Items {
		inputs[i] = ContentItemInput{
			ReferenceText:     item.ReferenceText,
			Translation:       item.Translation,
			ReferenceAudioURL: item.ReferenceAudioURL,
		}
	}

	items, err := h.service.AddContentItems(c.Context(), id, inputs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": items})
}

func (h *Handler) ImportContentItems(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("file is required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperr.Validation("could not open uploaded file", nil)
	}
	defer file.Close()

	parsed, err := ParseContentItemsCSV(file)
	if err != nil {
		return err
	}

	items, err := h.service.AddContentItems(c.Context(), id, parsed.Items)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items":  items,
			"result": parsed,
		},
	})
}

type issueAssignmentBody struct {
	ClassroomID uint   `json:"classroom_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	ContentIDs  []uint `json:"content_ids" validate:"required,min=1"`
}

func (h *Handler) IssueAssignment(c *fiber.Ctx) error {
	var body issueAssignmentBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	assignment, err := h.service.IssueAssignment(c.Context(), principalID(c), IssueAssignmentRequest{
		ClassroomID: body.ClassroomID,
		Title:       body.Title,
		ContentIDs:  body.ContentIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": assignment})
}

func (h *Handler) GetAssignment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	assignment, err := h.service.GetAssignment(c.Context(), principalID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": assignment})
}

func (h *Handler) ListAssignments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	assignments, err := h.service.ListAssignments(c.Context(), principalID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": assignments})
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
