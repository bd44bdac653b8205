package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/Snorakx/loyalty-admin-panel/internal/scancode"
	"github.com/Snorakx/loyalty-admin-panel/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OnboardingService runs the five-step wizard that creates a new
// tenant. Creation is best-effort sequential with no compensating
// rollback: a later step's failure reports that step's message and
// leaves earlier rows in place. Records are cheap to clean up
// manually, and the tenant stays pending until approved anyway.
type OnboardingService struct {
	db        *gorm.DB
	authSvc   *AuthService
	dashboard *DashboardService
}

func NewOnboardingService(db *gorm.DB, authSvc *AuthService, dashboard *DashboardService) *OnboardingService {
	return &OnboardingService{db: db, authSvc: authSvc, dashboard: dashboard}
}

// Validate checks the wizard fields without touching the database.
// The NIP duplicate check happens at completion time.
func (s *OnboardingService) Validate(req *dto.OnboardingRequest) []ValidationError {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if len(strings.TrimSpace(req.BusinessName)) < 2 {
		add("business_name", "business name is required (min 2 characters)")
	}
	if req.BusinessType == "" {
		add("business_type", "business type is required")
	}
	if len(strings.TrimSpace(req.ContactPerson)) < 2 {
		add("contact_person", "contact person is required")
	}
	if req.ContactEmail == "" {
		add("contact_email", "contact email is required")
	}
	if req.ContactPhone == "" {
		add("contact_phone", "contact phone is required")
	}
	if len(strings.TrimSpace(req.LocationName)) < 2 {
		add("location_name", "location name is required")
	}
	if len(strings.TrimSpace(req.LocationAddress)) < 5 {
		add("location_address", "location address is required")
	}
	if req.StampsRequired < 3 || req.StampsRequired > 20 {
		add("stamps_required", "stamps required must be between 3 and 20")
	}
	if len(strings.TrimSpace(req.RewardDescription)) < 3 {
		add("reward_description", "reward description is required")
	}
	if req.NIP != "" && !validation.ValidNIP(req.NIP) {
		add("nip", "invalid NIP checksum")
	}
	return errs
}

// CompleteOnboarding creates tenant, owner role, location, loyalty
// program and optional billing info, in that order.
func (s *OnboardingService) CompleteOnboarding(userID uuid.UUID, req *dto.OnboardingRequest) (*dto.OnboardingResponse, error) {
	if errs := s.Validate(req); len(errs) > 0 {
		return nil, &errs[0]
	}

	if req.NIP != "" {
		var count int64
		if err := s.db.Model(&models.BillingInfo{}).
			Where("nip = ?", validation.CleanNIP(req.NIP)).Count(&count).Error; err == nil && count > 0 {
			return nil, &ValidationError{Field: "nip", Message: "this NIP is already registered"}
		}
	}

	// Similar names are a warning only, never a block.
	var similar int64
	if err := s.db.Model(&models.Tenant{}).
		Where("LOWER(name) = LOWER(?)", req.BusinessName).Count(&similar).Error; err == nil && similar > 0 {
		slog.Warn("similar business name already registered", "name", req.BusinessName)
	}

	// Step 1: tenant, pending until approved.
	t := models.Tenant{
		ID:                 uuid.New(),
		Name:               req.BusinessName,
		BusinessType:       req.BusinessType,
		ContactPerson:      req.ContactPerson,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		LogoURL:            req.LogoURL,
		BackgroundImageURL: req.BackgroundImageURL,
		StampIconURL:       req.StampIconURL,
		Status:             models.TenantStatusPending,
		OnboardingComplete: true,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	// Step 2: promote the user to owner of the new tenant.
	role := models.UserRole{
		ID:       uuid.New(),
		UserID:   userID,
		Role:     "business_owner",
		TenantID: &t.ID,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "tenant_id", "updated_at"}),
	}).Create(&role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to assign owner role: %w", err)
	}
	s.authSvc.InvalidateUser(userID)

	// Step 3: first location with its immutable scan code.
	code, err := scancode.Generate(req.BusinessName, req.LocationName)
	if err != nil {
		return nil, err
	}
	loc := models.Location{
		ID:       uuid.New(),
		TenantID: t.ID,
		Name:     req.LocationName,
		Address:  req.LocationAddress,
		ScanCode: code,
	}
	if err := s.db.Create(&loc).Error; err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	// Step 4: the active loyalty program.
	program := models.LoyaltyProgram{
		ID:                uuid.New(),
		TenantID:          t.ID,
		StampsRequired:    req.StampsRequired,
		RewardDescription: req.RewardDescription,
		Active:            true,
	}
	if err := s.db.Create(&program).Error; err != nil {
		return nil, fmt.Errorf("failed to create loyalty program: %w", err)
	}

	// Step 5: billing info, optional and non-fatal.
	if req.NIP != "" || req.CompanyName != "" {
		billing := models.BillingInfo{
			ID:            uuid.New(),
			TenantID:      t.ID,
			CompanyName:   req.CompanyName,
			NIP:           validation.CleanNIP(req.NIP),
			StreetAddress: req.StreetAddress,
			City:          req.City,
			PostalCode:    req.PostalCode,
		}
		if err := s.db.Create(&billing).Error; err != nil {
			slog.Warn("failed to store billing info", "tenant_id", t.ID.String(), "error", err)
		}
	}

	slog.Info("onboarding completed", "tenant_id", t.ID.String(), "user_id", userID.String())
	s.dashboard.InvalidateCache()
	return &dto.OnboardingResponse{Success: true, TenantID: t.ID}, nil
}
