package handlers

import (
	"errors"

	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ApprovalHandler serves the review queue. All routes sit behind the
// super admin middleware, which stores the resolved session user in
// request locals.
type ApprovalHandler struct {
	approvalService *services.ApprovalService
}

func NewApprovalHandler(approvalService *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) GetPendingBusinesses(c *fiber.Ctx) error {
	businesses, err := h.approvalService.GetPendingBusinesses()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(businesses)
}

func (h *ApprovalHandler) GetPendingCount(c *fiber.Ctx) error {
	count, err := h.approvalService.GetPendingCount()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *ApprovalHandler) GetBusinessDetails(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	details, err := h.approvalService.GetBusinessDetails(tenantID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(details)
}

func (h *ApprovalHandler) ApproveBusiness(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	reviewer, ok := c.Locals("session_user").(*auth.User)
	if !ok {
		return forbidden(c)
	}

	if err := h.approvalService.ApproveBusiness(tenantID, reviewer.ID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ApprovalHandler) RejectBusiness(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	reviewer, ok := c.Locals("session_user").(*auth.User)
	if !ok {
		return forbidden(c)
	}

	var req dto.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.approvalService.RejectBusiness(tenantID, req.Reason, reviewer.ID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ApprovalHandler) RequestChanges(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	var req dto.RequestChangesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.approvalService.RequestChanges(tenantID, req.Notes); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ApprovalHandler) ResubmitBusiness(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tenant ID")
	}

	if err := h.approvalService.ResubmitAfterRejection(tenantID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ApprovalHandler) mapError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrTenantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotPending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.As(err, &vErr):
		return badRequest(c, vErr.Error())
	default:
		return internalError(c)
	}
}
