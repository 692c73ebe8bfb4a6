package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotopia/backend/internal/authz"
)

func protectedApp(engine *authz.Engine, registry *Registry, principalID uint) *fiber.App {
	app := newTestApp()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("teacher_id", principalID)
		return c.Next()
	})
	app.Use(Authz(engine, registry))
	app.Post("/api/v1/schools/:schoolId/classrooms", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthz_GrantedRoleIsAllowed(t *testing.T) {
	engine := authz.NewEngine()
	require.NoError(t, engine.Grant(7, authz.RoleSchoolAdmin, authz.SchoolDomain(5)))

	registry := NewRegistry()
	registry.Register(fiber.MethodPost, "/api/v1/schools/:schoolId/classrooms", RouteDescriptor{
		Resource: authz.ResourceClassroom, Action: authz.ActionCreate, Kind: authz.DomainKindSchool, DomainParam: "schoolId",
	})

	app := protectedApp(engine, registry, 7)
	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/schools/5/classrooms", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthz_MissingRoleIsForbidden(t *testing.T) {
	engine := authz.NewEngine()

	registry := NewRegistry()
	registry.Register(fiber.MethodPost, "/api/v1/schools/:schoolId/classrooms", RouteDescriptor{
		Resource: authz.ResourceClassroom, Action: authz.ActionCreate, Kind: authz.DomainKindSchool, DomainParam: "schoolId",
	})

	app := protectedApp(engine, registry, 7)
	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/schools/5/classrooms", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthz_WrongSchoolIsForbidden(t *testing.T) {
	engine := authz.NewEngine()
	require.NoError(t, engine.Grant(7, authz.RoleSchoolAdmin, authz.SchoolDomain(5)))

	registry := NewRegistry()
	registry.Register(fiber.MethodPost, "/api/v1/schools/:schoolId/classrooms", RouteDescriptor{
		Resource: authz.ResourceClassroom, Action: authz.ActionCreate, Kind: authz.DomainKindSchool, DomainParam: "schoolId",
	})

	app := protectedApp(engine, registry, 7)
	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/schools/9/classrooms", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthz_UnregisteredRoutePassesThrough(t *testing.T) {
	engine := authz.NewEngine()
	registry := NewRegistry()

	app := newTestApp()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("teacher_id", uint(1))
		return c.Next()
	})
	app.Use(Authz(engine, registry))
	app.Get("/api/v1/assignments/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/assignments/3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "routes with no registered descriptor authorize in their own service layer")
}

func TestAuthz_UnauthenticatedRequestIsRejected(t *testing.T) {
	engine := authz.NewEngine()
	registry := NewRegistry()
	registry.Register(fiber.MethodPost, "/api/v1/schools/:schoolId/classrooms", RouteDescriptor{
		Resource: authz.ResourceClassroom, Action: authz.ActionCreate, Kind: authz.DomainKindSchool, DomainParam: "schoolId",
	})

	app := newTestApp()
	app.Use(Authz(engine, registry))
	app.Post("/api/v1/schools/:schoolId/classrooms", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/schools/5/classrooms", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
