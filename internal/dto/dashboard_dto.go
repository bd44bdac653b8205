package dto

import "github.com/Snorakx/loyalty-admin-panel/internal/models"

// DashboardStats is the derived, non-persisted aggregate shown on the
// dashboard. Trends compare the all-time value against the
// [now-60d, now-30d] baseline window.
type DashboardStats struct {
	TotalTenants         int     `json:"total_tenants"`
	TotalLocations       int     `json:"total_locations"`
	TotalLoyaltyPrograms int     `json:"total_loyalty_programs"`
	ActivePrograms       int     `json:"active_programs"`
	TotalCustomers       int     `json:"total_customers"`
	TotalStamps          int     `json:"total_stamps"`
	ActiveCards          int     `json:"active_cards"`
	StampsToday          int     `json:"stamps_today"`
	CustomersTrend       int     `json:"customers_trend"`
	StampsTrend          int     `json:"stamps_trend"`
	CardsTrend           int     `json:"cards_trend"`
	Engagement           float64 `json:"engagement"`
	EngagementTrend      int     `json:"engagement_trend"`
}

type DashboardData struct {
	Tenants         []models.Tenant         `json:"tenants"`
	Locations       []models.Location       `json:"locations"`
	LoyaltyPrograms []models.LoyaltyProgram `json:"loyalty_programs"`
	Stats           DashboardStats          `json:"stats"`
}
