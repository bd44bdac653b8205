package dto

import "github.com/google/uuid"

// OnboardingRequest carries the five wizard steps: basic info,
// location, optional billing, optional branding, loyalty program.
type OnboardingRequest struct {
	// Step 1: basic info
	BusinessName  string `json:"business_name"`
	BusinessType  string `json:"business_type"`
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`

	// Step 2: first location
	LocationName    string `json:"location_name"`
	LocationAddress string `json:"location_address"`

	// Step 3: billing (optional)
	CompanyName   string `json:"company_name,omitempty"`
	NIP           string `json:"nip,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`

	// Step 4: branding (optional, uploaded separately)
	LogoURL            string `json:"logo_url,omitempty"`
	BackgroundImageURL string `json:"background_image_url,omitempty"`
	StampIconURL       string `json:"stamp_icon_url,omitempty"`

	// Step 5: loyalty program
	StampsRequired    int    `json:"stamps_required"`
	RewardDescription string `json:"reward_description"`
}

type OnboardingResponse struct {
	Success  bool      `json:"success"`
	TenantID uuid.UUID `json:"tenant_id,omitempty"`
}
