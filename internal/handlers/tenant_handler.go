package handlers

import (
	"errors"

	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TenantHandler struct {
	authService   *services.AuthService
	tenantService *services.TenantService
}

func NewTenantHandler(authService *services.AuthService, tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{
		authService:   authService,
		tenantService: tenantService,
	}
}

func (h *TenantHandler) GetTenants(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	tenants, err := h.tenantService.GetTenants(user)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(tenants)
}

func (h *TenantHandler) GetTenant(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	t, err := h.tenantService.GetTenant(user, tenantID)
	if err != nil {
		return h.mapError(c, err)
	}
	// Scope misses and absent rows are indistinguishable on purpose.
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrTenantNotFound.Error(),
		})
	}
	return c.JSON(t)
}

func (h *TenantHandler) GetLocations(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	requested, err := tenant.RequestedTenantID(c)
	if err != nil {
		return badRequest(c, "Invalid tenant_id")
	}

	locations, err := h.tenantService.GetLocations(user, requested)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(locations)
}

func (h *TenantHandler) GetLoyaltyPrograms(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	requested, err := tenant.RequestedTenantID(c)
	if err != nil {
		return badRequest(c, "Invalid tenant_id")
	}

	programs, err := h.tenantService.GetLoyaltyPrograms(user, requested)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(programs)
}

func (h *TenantHandler) UpdateTenant(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	var req dto.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	t, err := h.tenantService.UpdateTenant(user, tenantID, &req)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(t)
}

func (h *TenantHandler) DeleteTenant(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	var req dto.DeleteTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.tenantService.DeleteTenant(user, tenantID, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Password verification failed",
			})
		}
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *TenantHandler) CreateLocation(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	location, err := h.tenantService.CreateLocation(user, tenantID, &req)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

func (h *TenantHandler) UpdateLocation(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid location ID")
	}

	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	location, err := h.tenantService.UpdateLocation(user, locationID, &req)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(location)
}

func (h *TenantHandler) DeleteLocation(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid location ID")
	}

	if err := h.tenantService.DeleteLocation(user, locationID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *TenantHandler) UpdateLoyaltyProgram(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	programID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid program ID")
	}

	var req dto.UpdateLoyaltyProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	program, err := h.tenantService.UpdateLoyaltyProgram(user, programID, &req)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(program)
}

func (h *TenantHandler) mapError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return forbidden(c)
	case errors.Is(err, services.ErrTenantNotFound),
		errors.Is(err, services.ErrLocationNotFound),
		errors.Is(err, services.ErrProgramNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.As(err, &vErr):
		return badRequest(c, vErr.Error())
	default:
		return internalError(c)
	}
}
