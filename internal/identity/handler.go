package identity

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
)

var validate = validator.New()

// Handler exposes teacher signup/login/session and student-roster
// operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public (unauthenticated) auth routes.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
}

// RegisterProtectedRoutes registers routes that require an
// authenticated teacher.
func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/change-password", h.ChangePassword)
	auth.Get("/me", h.Me)

	router.Post("/students", h.CreateStudent)
	router.Get("/classrooms/:classroomID/students", h.ListStudents)
	router.Patch("/students/:id/active", h.SetStudentActive)
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body RegisterTeacherRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("request body could not be parsed", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	teacher, err := h.service.RegisterTeacher(c.Context(), body.Email, body.DisplayName, body.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toTeacherResponse(teacher),
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("request body could not be parsed", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	resp, _, err := h.service.Authenticate(c.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": resp})
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	var body RefreshTokenRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("request body could not be parsed", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	resp, err := h.service.RefreshAccessToken(c.Context(), body.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": resp})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var body ChangePasswordRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("request body could not be parsed", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	if err := h.service.ChangePassword(c.Context(), principalID(c), body.CurrentPassword, body.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	teacher, err := h.service.GetTeacher(c.Context(), principalID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": toTeacherResponse(teacher)})
}

func (h *Handler) CreateStudent(c *fiber.Ctx) error {
	var body CreateStudentRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("request body could not be parsed", nil)
	}
	if err := validate.Struct(body); err != nil {
		return apperr.Validation(err.Error(), nil)
	}

	student, err := h.service.CreateStudent(c.Context(), body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toStudentResponse(student),
	})
}

func (h *Handler) ListStudents(c *fiber.Ctx) error {
	classroomID, err := c.ParamsInt("classroomID")
	if err != nil {
		return apperr.Validation("classroomID must be numeric", nil)
	}

	students, err := h.service.ListStudentsByClassroom(c.Context(), uint(classroomID))
	if err != nil {
		return err
	}

	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, toStudentResponse(&student))
	}
	return c.JSON(fiber.Map{"success": true, "data": responses})
}

func (h *Handler) SetStudentActive(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("id must be numeric", nil)
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.Validation("request body could not be parsed", nil)
	}

	if err := h.service.SetStudentActive(c.Context(), uint(studentID), body.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// principalID reads the authenticated teacher ID set by internal/middleware.
func principalID(c *fiber.Ctx) uint {
	id, _ := c.Locals("teacher_id").(uint)
	return id
}

