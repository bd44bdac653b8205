package dto

type UpdateTenantRequest struct {
	Name               *string `json:"name,omitempty"`
	BusinessType       *string `json:"business_type,omitempty"`
	ContactPerson      *string `json:"contact_person,omitempty"`
	ContactEmail       *string `json:"contact_email,omitempty"`
	ContactPhone       *string `json:"contact_phone,omitempty"`
	LogoURL            *string `json:"logo_url,omitempty"`
	BackgroundImageURL *string `json:"background_image_url,omitempty"`
	StampIconURL       *string `json:"stamp_icon_url,omitempty"`
}

type CreateLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type UpdateLocationRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

type UpdateLoyaltyProgramRequest struct {
	StampsRequired    *int    `json:"stamps_required,omitempty"`
	RewardDescription *string `json:"reward_description,omitempty"`
	Active            *bool   `json:"active,omitempty"`
}

// DeleteTenantRequest requires a fresh password check before the
// irreversible delete.
type DeleteTenantRequest struct {
	Password string `json:"password"`
}
