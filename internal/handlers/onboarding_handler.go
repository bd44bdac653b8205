package handlers

import (
	"errors"

	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type OnboardingHandler struct {
	onboardingService *services.OnboardingService
}

func NewOnboardingHandler(onboardingService *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// Validate dry-runs the submission so the wizard can surface
// field-level errors before the final step.
func (h *OnboardingHandler) Validate(c *fiber.Ctx) error {
	var req dto.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	validationErrors := h.onboardingService.Validate(&req)
	fields := make([]fiber.Map, 0, len(validationErrors))
	for _, vErr := range validationErrors {
		fields = append(fields, fiber.Map{"field": vErr.Field, "message": vErr.Message})
	}

	return c.JSON(fiber.Map{
		"valid":  len(fields) == 0,
		"errors": fields,
	})
}

func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.onboardingService.CompleteOnboarding(userID, &req)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return badRequest(c, vErr.Error())
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
