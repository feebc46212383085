package routes

import (
	"checkin-bot/internal/adapters/http/handlers"
	"checkin-bot/internal/adapters/http/middleware"
	"checkin-bot/internal/config"
	"checkin-bot/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the services the HTTP layer is wired to
type Dependencies struct {
	Bot           handlers.EventHandler
	Directory     handlers.DirectoryView
	Roles         middleware.RoleChecker
	Sessions      handlers.Counter
	CheckIns      handlers.CheckInLister // nil unless SINK_DRIVER=database
	DBCheck       func() error
	WebhookSecret string
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Dependencies, cfg *config.Config) {
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, deps.DBCheck, deps.Directory, deps.Sessions)
	webhookHandler := handlers.NewWebhookHandler(deps.Bot)
	directoryHandler := handlers.NewDirectoryHandler(deps.Directory)
	checkInHandler := handlers.NewCheckInHandler(deps.CheckIns)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Telegram webhook
	app.Post(middleware.WebhookPath, middleware.WebhookSecret(deps.WebhookSecret), webhookHandler.Telegram)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, deps, directoryHandler, checkInHandler, cfg)
}

// setupAPIV1Routes configures the operator API
func setupAPIV1Routes(
	router fiber.Router,
	deps Dependencies,
	directoryHandler *handlers.DirectoryHandler,
	checkInHandler *handlers.CheckInHandler,
	cfg *config.Config,
) {
	operator := router.Group("",
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.RequireRole(deps.Roles, domain.RoleAdmin),
	)

	// Directory routes
	directory := operator.Group("/directory")
	directory.Get("/", directoryHandler.List)
	directory.Post("/reload", directoryHandler.Reload)

	// Check-in routes
	operator.Get("/checkins", checkInHandler.List)
}
