package models

import (
	"time"

	"github.com/google/uuid"
)

// BillingInfo holds the optional invoicing details collected in the
// onboarding wizard. NIP is the Polish tax identification number.
type BillingInfo struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	CompanyName   string    `gorm:"size:255" json:"company_name"`
	NIP           string    `gorm:"size:10;index" json:"nip"`
	StreetAddress string    `gorm:"size:500" json:"street_address"`
	City          string    `gorm:"size:100" json:"city"`
	PostalCode    string    `gorm:"size:10" json:"postal_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Tenant        Tenant    `gorm:"foreignKey:TenantID" json:"-"`
}
