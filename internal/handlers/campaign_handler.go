package handlers

import (
	"errors"

	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/push"
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CampaignHandler struct {
	authService     *services.AuthService
	campaignService *services.CampaignService
}

func NewCampaignHandler(authService *services.AuthService, campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		authService:     authService,
		campaignService: campaignService,
	}
}

func (h *CampaignHandler) SendCampaign(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}
	if user == nil {
		return forbidden(c)
	}

	var req dto.SendCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.campaignService.SendCampaign(c.Context(), user, &req)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}

	requested, err := tenant.RequestedTenantID(c)
	if err != nil {
		return badRequest(c, "Invalid tenant_id")
	}

	campaigns, err := h.campaignService.ListCampaigns(user, requested)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(campaigns)
}

// PreviewSegment estimates the audience size for a segment without
// delivering anything. An unsupported segment is not an error; the
// response carries supported=false with zero recipients.
func (h *CampaignHandler) PreviewSegment(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}
	if user == nil {
		return forbidden(c)
	}

	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		return badRequest(c, "Invalid tenant_id")
	}
	segmentType := c.Query("segment_type")

	resp, err := h.campaignService.PreviewSegment(c.Context(), user, tenantID, segmentType)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

func (h *CampaignHandler) GetCampaignStats(c *fiber.Ctx) error {
	user, err := sessionUser(c, h.authService)
	if err != nil {
		return internalError(c)
	}
	if user == nil {
		return forbidden(c)
	}

	notificationID := c.Params("id")
	if notificationID == "" {
		return badRequest(c, "Missing notification ID")
	}

	return c.JSON(h.campaignService.GetCampaignStats(c.Context(), user, notificationID))
}

func (h *CampaignHandler) mapError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	var pErr *push.ProviderError
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return forbidden(c)
	case errors.Is(err, services.ErrTenantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUnknownSegment),
		errors.Is(err, services.ErrTestSendNotConfirmed),
		errors.As(err, &vErr):
		return badRequest(c, err.Error())
	case errors.As(err, &pErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Push delivery failed",
		})
	default:
		return internalError(c)
	}
}
