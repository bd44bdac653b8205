package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/Snorakx/loyalty-admin-panel/internal/scancode"
	"github.com/Snorakx/loyalty-admin-panel/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrProgramNotFound  = errors.New("loyalty program not found")
)

// TenantService is the scope-resolved CRUD surface for tenants,
// locations and loyalty programs. Reads fail closed: a scope mismatch
// yields an empty result, never an error, so existence cannot be
// inferred across tenants.
type TenantService struct {
	db        *gorm.DB
	authSvc   *AuthService
	dashboard *DashboardService
}

func NewTenantService(db *gorm.DB, authSvc *AuthService, dashboard *DashboardService) *TenantService {
	return &TenantService{db: db, authSvc: authSvc, dashboard: dashboard}
}

func (s *TenantService) GetTenants(user *auth.User) ([]models.Tenant, error) {
	scope := tenant.Resolve(user, nil)
	tenants := []models.Tenant{}
	if scope.Empty() {
		return tenants, nil
	}
	q := s.db.Order("created_at DESC")
	if !scope.All() {
		q = q.Where("id = ?", scope.TenantID())
	}
	if err := q.Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tenants: %w", err)
	}
	return tenants, nil
}

func (s *TenantService) GetTenant(user *auth.User, tenantID uuid.UUID) (*models.Tenant, error) {
	scope := tenant.Resolve(user, &tenantID)
	if scope.Empty() {
		return nil, nil
	}
	var t models.Tenant
	if err := s.db.First(&t, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}
	return &t, nil
}

func (s *TenantService) GetLocations(user *auth.User, requested *uuid.UUID) ([]models.Location, error) {
	scope := tenant.Resolve(user, requested)
	locations := []models.Location{}
	if scope.Empty() {
		return locations, nil
	}
	if err := scope.Apply(s.db.Order("created_at DESC")).Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	return locations, nil
}

func (s *TenantService) GetLoyaltyPrograms(user *auth.User, requested *uuid.UUID) ([]models.LoyaltyProgram, error) {
	scope := tenant.Resolve(user, requested)
	programs := []models.LoyaltyProgram{}
	if scope.Empty() {
		return programs, nil
	}
	if err := scope.Apply(s.db.Order("created_at DESC")).Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch loyalty programs: %w", err)
	}
	return programs, nil
}

func (s *TenantService) UpdateTenant(user *auth.User, tenantID uuid.UUID, req *dto.UpdateTenantRequest) (*models.Tenant, error) {
	if !auth.PermissionsFor(user.Role).CanEditTenants {
		return nil, ErrPermissionDenied
	}
	scope := tenant.Resolve(user, &tenantID)
	if scope.Empty() {
		return nil, ErrTenantNotFound
	}

	var t models.Tenant
	if err := s.db.First(&t, "id = ?", tenantID).Error; err != nil {
		return nil, ErrTenantNotFound
	}

	updates := map[string]interface{}{}
	setIf(updates, "name", req.Name)
	setIf(updates, "business_type", req.BusinessType)
	setIf(updates, "contact_person", req.ContactPerson)
	setIf(updates, "contact_email", req.ContactEmail)
	setIf(updates, "contact_phone", req.ContactPhone)
	setIf(updates, "logo_url", req.LogoURL)
	setIf(updates, "background_image_url", req.BackgroundImageURL)
	setIf(updates, "stamp_icon_url", req.StampIconURL)
	if len(updates) == 0 {
		return &t, nil
	}

	if err := s.db.Model(&t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}
	s.dashboard.InvalidateCache()
	return &t, nil
}

// DeleteTenant is irreversible, so it demands a fresh password check
// on top of the super-admin role. The password verification never
// replaces the caller's session.
func (s *TenantService) DeleteTenant(user *auth.User, tenantID uuid.UUID, password string) error {
	if !auth.PermissionsFor(user.Role).CanDeleteTenants {
		return ErrPermissionDenied
	}
	if !s.authSvc.VerifyPassword(user.Email, password) {
		return ErrInvalidCredentials
	}

	var t models.Tenant
	if err := s.db.First(&t, "id = ?", tenantID).Error; err != nil {
		return ErrTenantNotFound
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("tenant_id = ?", tenantID).Delete(&models.Location{})
		tx.Where("tenant_id = ?", tenantID).Delete(&models.LoyaltyProgram{})
		tx.Where("tenant_id = ?", tenantID).Delete(&models.BillingInfo{})
		return tx.Delete(&t).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	slog.Info("tenant deleted", "tenant_id", tenantID.String(), "user_id", user.ID.String())
	s.dashboard.InvalidateCache()
	return nil
}

// CreateLocation generates the location's scan code at creation; the
// code is immutable afterwards.
func (s *TenantService) CreateLocation(user *auth.User, tenantID uuid.UUID, req *dto.CreateLocationRequest) (*models.Location, error) {
	if !auth.PermissionsFor(user.Role).CanCreateLocations {
		return nil, ErrPermissionDenied
	}
	scope := tenant.Resolve(user, &tenantID)
	if scope.Empty() {
		return nil, ErrTenantNotFound
	}
	if req.Name == "" || req.Address == "" {
		return nil, &ValidationError{Field: "name", Message: "location name and address are required"}
	}

	var t models.Tenant
	if err := s.db.First(&t, "id = ?", tenantID).Error; err != nil {
		return nil, ErrTenantNotFound
	}

	code, err := scancode.Generate(t.Name, req.Name)
	if err != nil {
		return nil, err
	}

	loc := models.Location{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     req.Name,
		Address:  req.Address,
		ScanCode: code,
	}
	if err := s.db.Create(&loc).Error; err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	s.dashboard.InvalidateCache()
	return &loc, nil
}

func (s *TenantService) UpdateLocation(user *auth.User, locationID uuid.UUID, req *dto.UpdateLocationRequest) (*models.Location, error) {
	if !auth.PermissionsFor(user.Role).CanEditLocations {
		return nil, ErrPermissionDenied
	}

	var loc models.Location
	if err := s.db.First(&loc, "id = ?", locationID).Error; err != nil {
		return nil, ErrLocationNotFound
	}
	if scope := tenant.Resolve(user, &loc.TenantID); scope.Empty() {
		return nil, ErrLocationNotFound
	}

	updates := map[string]interface{}{}
	setIf(updates, "name", req.Name)
	setIf(updates, "address", req.Address)
	if len(updates) == 0 {
		return &loc, nil
	}

	if err := s.db.Model(&loc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	s.dashboard.InvalidateCache()
	return &loc, nil
}

func (s *TenantService) DeleteLocation(user *auth.User, locationID uuid.UUID) error {
	if !auth.PermissionsFor(user.Role).CanDeleteLocations {
		return ErrPermissionDenied
	}

	var loc models.Location
	if err := s.db.First(&loc, "id = ?", locationID).Error; err != nil {
		return ErrLocationNotFound
	}
	if scope := tenant.Resolve(user, &loc.TenantID); scope.Empty() {
		return ErrLocationNotFound
	}

	if err := s.db.Delete(&loc).Error; err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	s.dashboard.InvalidateCache()
	return nil
}

func (s *TenantService) UpdateLoyaltyProgram(user *auth.User, programID uuid.UUID, req *dto.UpdateLoyaltyProgramRequest) (*models.LoyaltyProgram, error) {
	if !auth.PermissionsFor(user.Role).CanEditLoyaltyPrograms {
		return nil, ErrPermissionDenied
	}

	var program models.LoyaltyProgram
	if err := s.db.First(&program, "id = ?", programID).Error; err != nil {
		return nil, ErrProgramNotFound
	}
	if scope := tenant.Resolve(user, &program.TenantID); scope.Empty() {
		return nil, ErrProgramNotFound
	}

	if req.StampsRequired != nil && (*req.StampsRequired < 3 || *req.StampsRequired > 20) {
		return nil, &ValidationError{Field: "stamps_required", Message: "stamps required must be between 3 and 20"}
	}

	updates := map[string]interface{}{}
	if req.StampsRequired != nil {
		updates["stamps_required"] = *req.StampsRequired
	}
	setIf(updates, "reward_description", req.RewardDescription)
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return &program, nil
	}

	if err := s.db.Model(&program).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update loyalty program: %w", err)
	}
	s.dashboard.InvalidateCache()
	return &program, nil
}

func setIf(updates map[string]interface{}, column string, val *string) {
	if val != nil {
		updates[column] = *val
	}
}
