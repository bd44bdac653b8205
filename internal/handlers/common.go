package handlers

import (
	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

// sessionUser resolves the authenticated user for the current request.
// Middleware may have resolved it already; otherwise it is fetched
// through the auth service's short-lived cache. A nil user with nil
// error means the account exists but carries no role.
func sessionUser(c *fiber.Ctx, authService *services.AuthService) (*auth.User, error) {
	if cached, ok := c.Locals("session_user").(*auth.User); ok {
		return cached, nil
	}

	userID, err := tenant.GetUserID(c)
	if err != nil {
		return nil, err
	}
	return authService.FetchCurrentUser(userID)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Permission denied",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Internal server error",
	})
}
