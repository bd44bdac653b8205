package middleware

import (
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

// SuperAdminRequired gates the approval flow. The role is resolved
// through the session store, not trusted from the JWT claim, so a
// role revocation takes effect within the user cache TTL.
func SuperAdminRequired(authSvc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := tenant.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		user, err := authSvc.FetchCurrentUser(userID)
		if err != nil || user == nil || !user.IsSuperAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Super admin access required",
			})
		}

		c.Locals("session_user", user)
		return c.Next()
	}
}
