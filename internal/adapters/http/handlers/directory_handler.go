package handlers

import (
	"context"
	"log"
	"time"

	"checkin-bot/internal/core/domain"
	"checkin-bot/internal/core/services"
	"checkin-bot/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DirectoryView is the read and reload surface of the directory cache
type DirectoryView interface {
	OwnerID() int64
	Entries(role domain.Role) []domain.DirectoryEntry
	Size() int
	LoadedAt() time.Time
	ReloadWithReport(ctx context.Context) (services.ReloadReport, error)
}

// DirectoryHandler exposes the directory snapshot to operators
type DirectoryHandler struct {
	directory DirectoryView
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory DirectoryView) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type directoryEntryResponse struct {
	ID          int64  `json:"id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
	Handle      string `json:"handle,omitempty"`
}

// List handles GET /api/v1/directory?role=admin|user
func (h *DirectoryHandler) List(c *fiber.Ctx) error {
	var roles []domain.Role
	switch c.Query("role") {
	case "":
		roles = []domain.Role{domain.RoleAdmin, domain.RoleAuthorizedUser}
	case "admin":
		roles = []domain.Role{domain.RoleAdmin}
	case "user":
		roles = []domain.Role{domain.RoleAuthorizedUser}
	default:
		return response.Fail(c, fiber.StatusBadRequest, "role must be 'admin' or 'user'")
	}

	entries := make([]directoryEntryResponse, 0)
	for _, role := range roles {
		for _, e := range h.directory.Entries(role) {
			entries = append(entries, directoryEntryResponse{
				ID:          e.ID,
				Role:        e.Role.String(),
				DisplayName: e.DisplayName,
				Handle:      e.Handle,
			})
		}
	}

	return response.OK(c, fiber.Map{
		"owner_id":  h.directory.OwnerID(),
		"loaded_at": h.directory.LoadedAt(),
		"entries":   entries,
	})
}

// Reload handles POST /api/v1/directory/reload.
// On failure the previous snapshot stays in effect.
func (h *DirectoryHandler) Reload(c *fiber.Ctx) error {
	report, err := h.directory.ReloadWithReport(c.UserContext())
	if err != nil {
		log.Printf("❌ Directory reload via API failed: %v", err)
		return response.FromError(c, err)
	}

	return response.OK(c, fiber.Map{
		"accepted": report.Accepted,
		"skipped":  report.Skipped,
		"size":     h.directory.Size(),
	})
}
