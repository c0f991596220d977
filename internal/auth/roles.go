package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskhive/support-desk/internal/domain"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

// RequireStaff ensures the caller is an AGENT or ADMIN.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil || !principal.User.Role.IsStaff() {
			return apperrors.NewUnauthorized("Unauthorized")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is an ADMIN.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil || principal.User.Role != domain.RoleAdmin {
			return apperrors.NewUnauthorized("Unauthorized")
		}
		return c.Next()
	}
}
