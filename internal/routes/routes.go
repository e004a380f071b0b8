package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/handler"
	"github.com/olagu/console/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles every HTTP handler the console exposes
type Handlers struct {
	Post      *handler.PostHandler
	Donation  *handler.DonationHandler
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	GiftCode  *handler.GiftCodeHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Options route-level settings
type Options struct {
	Session   middleware.SessionConfig
	Restorer  middleware.SessionRestorer
	Redis     *redis.Client // nil disables rate limiting
	RateLimit middleware.RateLimitConfig
}

// Setup configures all API routes
func Setup(router *gin.Engine, h Handlers, opts Options) {
	router.GET("/health", h.Health.Health)

	api := router.Group("/api", middleware.LoadSession(opts.Restorer, opts.Session))
	api.GET("/test-connection", h.Health.TestConnection)

	// Public submissions
	limit := middleware.RateLimit(opts.Redis, opts.RateLimit)
	api.POST("/posts", limit, h.Post.Submit)
	api.POST("/donations", limit, h.Donation.Record)

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", middleware.RequireSession(opts.Session.LoginURL), h.Auth.Me)

	// Console (session required)
	admin := api.Group("/admin", middleware.RequireSession(opts.Session.LoginURL))
	admin.GET("/dashboard", h.Dashboard.Summary)

	admin.GET("/posts/pending", h.Post.ListPending)
	admin.PATCH("/posts/:id/review", h.Post.Review)

	admin.GET("/donations", h.Donation.List)
	admin.GET("/donations/total", h.Donation.Total)

	// Admin management (super admin, except changing one's own password)
	admins := admin.Group("/admins")
	admins.PUT("/:id/password", h.Admin.ChangePassword)
	super := admins.Group("", middleware.RequireSuperAdmin())
	super.GET("", h.Admin.List)
	super.POST("", h.Admin.Create)
	super.GET("/by-username/:username", h.Admin.GetByUsername)
	super.PUT("/:id", h.Admin.Update)
	super.DELETE("/:id", h.Admin.Delete)

	// Gift codes
	gifts := admin.Group("/gift-codes")
	gifts.GET("", h.GiftCode.List)
	gifts.POST("", h.GiftCode.Create)
	gifts.GET("/:id", h.GiftCode.Get)
	gifts.DELETE("/:id", h.GiftCode.Delete)
	gifts.PATCH("/:id/extend", h.GiftCode.Extend)
	gifts.POST("/:id/accounts", h.GiftCode.AddAccounts)
	gifts.DELETE("/:id/accounts", h.GiftCode.RemoveAccount)
	gifts.GET("/:id/redemptions", h.GiftCode.Redemptions)
	gifts.GET("/:id/logs", h.GiftCode.Logs)
}
