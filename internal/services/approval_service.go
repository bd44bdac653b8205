package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/cache"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotPending = errors.New("business is not awaiting review")

// ApprovalService is the super-admin review flow for pending business
// registrations. Route-level middleware already guarantees the caller
// is a super admin.
type ApprovalService struct {
	db        *gorm.DB
	dashboard *DashboardService
	pending   *cache.Snapshot[[]dto.PendingBusiness]
}

func NewApprovalService(db *gorm.DB, dashboard *DashboardService) *ApprovalService {
	return &ApprovalService{
		db:        db,
		dashboard: dashboard,
		pending:   cache.NewSnapshot[[]dto.PendingBusiness](cache.TTLPendingBusinesses),
	}
}

// GetPendingBusinesses lists tenants awaiting review, decorated with
// their owner's email. Cached for one minute.
func (s *ApprovalService) GetPendingBusinesses() ([]dto.PendingBusiness, error) {
	if cached, ok := s.pending.Get(); ok {
		return cached, nil
	}

	var tenants []models.Tenant
	if err := s.db.Where("status = ?", models.TenantStatusPending).
		Order("created_at DESC").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending businesses: %w", err)
	}

	result := make([]dto.PendingBusiness, 0, len(tenants))
	for _, t := range tenants {
		pb := dto.PendingBusiness{
			ID:            t.ID,
			Name:          t.Name,
			BusinessType:  t.BusinessType,
			ContactPerson: t.ContactPerson,
			ContactEmail:  t.ContactEmail,
			ContactPhone:  t.ContactPhone,
			CreatedAt:     t.CreatedAt,
		}
		if owner := s.findOwner(t.ID); owner != nil {
			pb.OwnerEmail = owner.Email
			pb.OwnerID = &owner.ID
		}
		result = append(result, pb)
	}

	s.pending.Set(result)
	return result, nil
}

func (s *ApprovalService) GetPendingCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.Tenant{}).
		Where("status = ?", models.TenantStatusPending).Count(&count).Error
	return count, err
}

// GetBusinessDetails composes the full review view of one tenant.
// Missing optional pieces (location, program, billing, owner) are
// simply nil.
func (s *ApprovalService) GetBusinessDetails(tenantID uuid.UUID) (*dto.BusinessDetails, error) {
	var t models.Tenant
	if err := s.db.First(&t, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}

	details := &dto.BusinessDetails{Tenant: t}

	var loc models.Location
	if err := s.db.Where("tenant_id = ?", tenantID).
		Order("created_at ASC").First(&loc).Error; err == nil {
		details.Location = &loc
	}

	var program models.LoyaltyProgram
	if err := s.db.Where("tenant_id = ?", tenantID).
		Order("created_at ASC").First(&program).Error; err == nil {
		details.LoyaltyProgram = &program
	}

	var billing models.BillingInfo
	if err := s.db.Where("tenant_id = ?", tenantID).First(&billing).Error; err == nil {
		details.BillingInfo = &billing
	}

	if owner := s.findOwner(tenantID); owner != nil {
		details.Owner = owner
	}

	return details, nil
}

// ApproveBusiness activates a pending tenant and records the decider.
func (s *ApprovalService) ApproveBusiness(tenantID, approvedBy uuid.UUID) error {
	var t models.Tenant
	if err := s.db.First(&t, "id = ?", tenantID).Error; err != nil {
		return ErrTenantNotFound
	}
	if t.Status != models.TenantStatusPending {
		return ErrNotPending
	}

	now := time.Now()
	err := s.db.Model(&t).Updates(map[string]interface{}{
		"status":           models.TenantStatusActive,
		"approved_by":      approvedBy,
		"approved_at":      now,
		"rejection_reason": "",
	}).Error
	if err != nil {
		return fmt.Errorf("failed to approve business: %w", err)
	}

	slog.Info("business approved", "tenant_id", tenantID.String(), "user_id", approvedBy.String())
	s.invalidate()
	return nil
}

func (s *ApprovalService) RejectBusiness(tenantID uuid.UUID, reason string, rejectedBy uuid.UUID) error {
	if reason == "" {
		return &ValidationError{Field: "reason", Message: "rejection reason is required"}
	}

	var t models.Tenant
	if err := s.db.First(&t, "id = ?", tenantID).Error; err != nil {
		return ErrTenantNotFound
	}
	if t.Status != models.TenantStatusPending {
		return ErrNotPending
	}

	err := s.db.Model(&t).Updates(map[string]interface{}{
		"status":           models.TenantStatusRejected,
		"rejection_reason": reason,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to reject business: %w", err)
	}

	slog.Info("business rejected", "tenant_id", tenantID.String(), "user_id", rejectedBy.String())
	s.invalidate()
	return nil
}

// RequestChanges attaches review notes; the tenant stays pending.
func (s *ApprovalService) RequestChanges(tenantID uuid.UUID, notes string) error {
	if notes == "" {
		return &ValidationError{Field: "notes", Message: "review notes are required"}
	}

	result := s.db.Model(&models.Tenant{}).
		Where("id = ? AND status = ?", tenantID, models.TenantStatusPending).
		Update("review_notes", notes)
	if result.Error != nil {
		return fmt.Errorf("failed to request changes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}

	s.invalidate()
	return nil
}

// ResubmitAfterRejection puts a rejected tenant back in the review
// queue.
func (s *ApprovalService) ResubmitAfterRejection(tenantID uuid.UUID) error {
	result := s.db.Model(&models.Tenant{}).
		Where("id = ? AND status = ?", tenantID, models.TenantStatusRejected).
		Updates(map[string]interface{}{
			"status":           models.TenantStatusPending,
			"rejection_reason": "",
		})
	if result.Error != nil {
		return fmt.Errorf("failed to resubmit business: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}

	s.invalidate()
	return nil
}

func (s *ApprovalService) findOwner(tenantID uuid.UUID) *dto.OwnerInfo {
	var role models.UserRole
	err := s.db.Preload("User").
		Where("tenant_id = ? AND role = ?", tenantID, "business_owner").
		First(&role).Error
	if err != nil {
		return nil
	}
	return &dto.OwnerInfo{ID: role.UserID, Email: role.User.Email}
}

func (s *ApprovalService) invalidate() {
	s.pending.Invalidate()
	s.dashboard.InvalidateCache()
}
