package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Counter reports the size of an in-memory collection
type Counter interface {
	Count() int
}

// DirectorySizer reports how many entries the directory snapshot holds
type DirectorySizer interface {
	Size() int
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	appMode   string
	dbCheck   func() error
	directory DirectorySizer
	sessions  Counter
}

// NewHealthHandler creates a new health handler. dbCheck may be nil.
func NewHealthHandler(appMode string, dbCheck func() error, directory DirectorySizer, sessions Counter) *HealthHandler {
	return &HealthHandler{
		appMode:   appMode,
		dbCheck:   dbCheck,
		directory: directory,
		sessions:  sessions,
	}
}

// Root handles root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Check-in bot is running",
		"mode":    h.appMode,
	})
}

// HealthCheck reports database reachability and in-memory state
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "healthy"
	if h.dbCheck != nil {
		if err := h.dbCheck(); err != nil {
			dbStatus = "unhealthy"
		}
	}

	code, status := fiber.StatusOK, "ok"
	if dbStatus != "healthy" {
		code, status = fiber.StatusServiceUnavailable, "degraded"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
		"directory_entries": h.directory.Size(),
		"live_sessions":     h.sessions.Count(),
	})
}
