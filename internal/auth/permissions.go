package auth

// Permissions is the static capability set of a role. Tenant-scoped
// roles additionally have every operation narrowed to their own
// tenant by the scope resolver; these flags only answer "may this
// role ever do this".
type Permissions struct {
	CanViewAllTenants bool `json:"can_view_all_tenants"`
	CanCreateTenants  bool `json:"can_create_tenants"`
	CanEditTenants    bool `json:"can_edit_tenants"`
	CanDeleteTenants  bool `json:"can_delete_tenants"`

	CanViewAllLocations bool `json:"can_view_all_locations"`
	CanCreateLocations  bool `json:"can_create_locations"`
	CanEditLocations    bool `json:"can_edit_locations"`
	CanDeleteLocations  bool `json:"can_delete_locations"`

	CanViewAllLoyaltyPrograms bool `json:"can_view_all_loyalty_programs"`
	CanCreateLoyaltyPrograms  bool `json:"can_create_loyalty_programs"`
	CanEditLoyaltyPrograms    bool `json:"can_edit_loyalty_programs"`
	CanDeleteLoyaltyPrograms  bool `json:"can_delete_loyalty_programs"`

	CanViewUsers   bool `json:"can_view_users"`
	CanCreateUsers bool `json:"can_create_users"`
	CanEditUsers   bool `json:"can_edit_users"`
	CanDeleteUsers bool `json:"can_delete_users"`
}

// PermissionsFor maps a role to its permission set. Total over the
// four known roles; unknown roles get the zero value, which denies
// everything.
func PermissionsFor(role Role) Permissions {
	switch role {
	case RoleSuperAdmin:
		return Permissions{
			CanViewAllTenants: true, CanCreateTenants: true, CanEditTenants: true, CanDeleteTenants: true,
			CanViewAllLocations: true, CanCreateLocations: true, CanEditLocations: true, CanDeleteLocations: true,
			CanViewAllLoyaltyPrograms: true, CanCreateLoyaltyPrograms: true, CanEditLoyaltyPrograms: true, CanDeleteLoyaltyPrograms: true,
			CanViewUsers: true, CanCreateUsers: true, CanEditUsers: true, CanDeleteUsers: true,
		}
	case RoleBusinessOwner:
		// Owner powers apply to the own tenant only.
		return Permissions{
			CanEditTenants:     true,
			CanCreateLocations: true, CanEditLocations: true, CanDeleteLocations: true,
			CanCreateLoyaltyPrograms: true, CanEditLoyaltyPrograms: true, CanDeleteLoyaltyPrograms: true,
		}
	case RoleManager:
		return Permissions{
			CanCreateLocations: true, CanEditLocations: true,
		}
	case RoleViewer:
		return Permissions{}
	default:
		return Permissions{}
	}
}
