package routes

import (
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/config"
	"github.com/Snorakx/loyalty-admin-panel/internal/handlers"
	"github.com/Snorakx/loyalty-admin-panel/internal/middleware"
	"github.com/Snorakx/loyalty-admin-panel/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	dashboardHandler *handlers.DashboardHandler,
	tenantHandler *handlers.TenantHandler,
	campaignHandler *handlers.CampaignHandler,
	onboardingHandler *handlers.OnboardingHandler,
	approvalHandler *handlers.ApprovalHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - apply middleware to individual
	// routes so it never leaks onto public ones
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Post("/auth/verify-password", middleware.JWTProtected(cfg), authHandler.VerifyPassword)

	// Dashboard
	api.Get("/dashboard", middleware.JWTProtected(cfg), dashboardHandler.GetDashboard)
	api.Post("/dashboard/refresh", middleware.JWTProtected(cfg), dashboardHandler.RefreshDashboard)

	// Tenants, locations, loyalty programs
	api.Get("/tenants", middleware.JWTProtected(cfg), tenantHandler.GetTenants)
	api.Get("/tenants/:id", middleware.JWTProtected(cfg), tenantHandler.GetTenant)
	api.Put("/tenants/:id", middleware.JWTProtected(cfg), tenantHandler.UpdateTenant)
	api.Delete("/tenants/:id", middleware.JWTProtected(cfg), tenantHandler.DeleteTenant)
	api.Post("/tenants/:id/locations", middleware.JWTProtected(cfg), tenantHandler.CreateLocation)
	api.Get("/locations", middleware.JWTProtected(cfg), tenantHandler.GetLocations)
	api.Put("/locations/:id", middleware.JWTProtected(cfg), tenantHandler.UpdateLocation)
	api.Delete("/locations/:id", middleware.JWTProtected(cfg), tenantHandler.DeleteLocation)
	api.Get("/loyalty-programs", middleware.JWTProtected(cfg), tenantHandler.GetLoyaltyPrograms)
	api.Put("/loyalty-programs/:id", middleware.JWTProtected(cfg), tenantHandler.UpdateLoyaltyProgram)

	// Campaigns
	api.Post("/campaigns", middleware.JWTProtected(cfg), campaignHandler.SendCampaign)
	api.Get("/campaigns", middleware.JWTProtected(cfg), campaignHandler.ListCampaigns)
	api.Get("/campaigns/preview", middleware.JWTProtected(cfg), campaignHandler.PreviewSegment)
	api.Get("/campaigns/:id/stats", middleware.JWTProtected(cfg), campaignHandler.GetCampaignStats)

	// Onboarding wizard
	api.Post("/onboarding/validate", middleware.JWTProtected(cfg), onboardingHandler.Validate)
	api.Post("/onboarding/complete", middleware.JWTProtected(cfg), onboardingHandler.Complete)

	// Review queue (protected + super admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.SuperAdminRequired(authService))
	admin.Get("/businesses/pending", approvalHandler.GetPendingBusinesses)
	admin.Get("/businesses/pending/count", approvalHandler.GetPendingCount)
	admin.Get("/businesses/:id", approvalHandler.GetBusinessDetails)
	admin.Post("/businesses/:id/approve", approvalHandler.ApproveBusiness)
	admin.Post("/businesses/:id/reject", approvalHandler.RejectBusiness)
	admin.Post("/businesses/:id/request-changes", approvalHandler.RequestChanges)
	admin.Post("/businesses/:id/resubmit", approvalHandler.ResubmitBusiness)
}
