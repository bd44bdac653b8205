package handlers

import (
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	authService      *services.AuthService
	dashboardService *services.DashboardService
}

func NewDashboardHandler(authService *services.AuthService, dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		authService:      authService,
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}
	if user == nil {
		return forbidden(c)
	}

	data, err := h.dashboardService.GetDashboardData(c.Context(), user)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(data)
}

func (h *DashboardHandler) RefreshDashboard(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}
	if user == nil {
		return forbidden(c)
	}

	h.dashboardService.InvalidateCache()

	data, err := h.dashboardService.GetDashboardData(c.Context(), user)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(data)
}
