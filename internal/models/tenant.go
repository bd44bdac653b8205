package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant lifecycle statuses. A tenant is created as pending during
// onboarding and moves to active or rejected only through an approval
// decision.
const (
	TenantStatusPending  = "pending"
	TenantStatusActive   = "active"
	TenantStatusRejected = "rejected"
)

type Tenant struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	BusinessType       string         `gorm:"size:100;not null" json:"business_type"`
	ContactPerson      string         `gorm:"size:255" json:"contact_person"`
	ContactEmail       string         `gorm:"size:255" json:"contact_email"`
	ContactPhone       string         `gorm:"size:50" json:"contact_phone"`
	LogoURL            string         `gorm:"size:500" json:"logo_url,omitempty"`
	BackgroundImageURL string         `gorm:"size:500" json:"background_image_url,omitempty"`
	StampIconURL       string         `gorm:"size:500" json:"stamp_icon_url,omitempty"`
	Status             string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	OnboardingComplete bool           `gorm:"default:false" json:"onboarding_completed"`
	ApprovedBy         *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
	RejectionReason    string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewNotes        string         `gorm:"type:text" json:"review_notes,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
