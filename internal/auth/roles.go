package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

// RequireAuthenticated rejects anonymous callers with 401.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := Caller(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := Caller(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !caller.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
