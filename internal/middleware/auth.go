// Package middleware holds the Fiber middleware shared across every
// module's routes: JWT authentication and the route-registry-driven
// authorization check described in §9.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
	"github.com/duotopia/backend/internal/identity"
)

// TokenValidator is the subset of internal/identity.JWTManager auth
// middleware needs, narrowed so tests can fake it.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*identity.TokenClaims, error)
}

// Auth validates the Authorization header's bearer JWT and populates
// c.Locals with the resolved teacher id, matching every handler
// package's principalID(c) helper (c.Locals("teacher_id")).
func Auth(jwtManager TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			return handleTokenError(err)
		}

		c.Locals("teacher_id", claims.TeacherID)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// OptionalAuth behaves like Auth but lets requests without a token, or
// with an invalid one, proceed unauthenticated — used by routes that
// serve both anonymous and logged-in callers (§4.3's demo token quota
// path).
func OptionalAuth(jwtManager TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Next()
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			return c.Next()
		}

		c.Locals("teacher_id", claims.TeacherID)
		c.Locals("claims", claims)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", apperr.Auth("authorization header is required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperr.Auth("invalid authorization header format")
	}

	return parts[1], nil
}

func handleTokenError(err error) error {
	switch err {
	case identity.ErrTokenExpired:
		return apperr.Auth("token has expired")
	case identity.ErrTokenMalformed:
		return apperr.Auth("token is malformed")
	default:
		return apperr.Auth("invalid token")
	}
}

// PrincipalID extracts the authenticated teacher id set by Auth.
func PrincipalID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("teacher_id").(uint)
	return id, ok
}

// Claims extracts the full token claims set by Auth.
func Claims(c *fiber.Ctx) (*identity.TokenClaims, bool) {
	claims, ok := c.Locals("claims").(*identity.TokenClaims)
	return claims, ok
}
