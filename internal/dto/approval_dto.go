package dto

import (
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/google/uuid"
)

type PendingBusiness struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	BusinessType  string     `json:"business_type"`
	ContactPerson string     `json:"contact_person"`
	ContactEmail  string     `json:"contact_email"`
	ContactPhone  string     `json:"contact_phone"`
	CreatedAt     time.Time  `json:"created_at"`
	OwnerEmail    string     `json:"owner_email,omitempty"`
	OwnerID       *uuid.UUID `json:"owner_id,omitempty"`
}

type BusinessDetails struct {
	Tenant         models.Tenant          `json:"tenant"`
	Location       *models.Location       `json:"location,omitempty"`
	LoyaltyProgram *models.LoyaltyProgram `json:"loyalty_program,omitempty"`
	BillingInfo    *models.BillingInfo    `json:"billing_info,omitempty"`
	Owner          *OwnerInfo             `json:"owner,omitempty"`
}

type OwnerInfo struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type RequestChangesRequest struct {
	Notes string `json:"notes"`
}
