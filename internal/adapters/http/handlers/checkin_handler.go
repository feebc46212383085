package handlers

import (
	"context"
	"log"

	"checkin-bot/internal/adapters/persistence/models"
	"checkin-bot/internal/pkg/pagination"
	"checkin-bot/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CheckInLister pages through stored check-in records
type CheckInLister interface {
	List(ctx context.Context, offset, limit int) ([]*models.CheckInRecord, int64, error)
}

// CheckInHandler exposes stored check-ins to operators
type CheckInHandler struct {
	records CheckInLister
}

// NewCheckInHandler creates a new check-in handler. records is nil when
// check-ins go to a sink that cannot be listed.
func NewCheckInHandler(records CheckInLister) *CheckInHandler {
	return &CheckInHandler{records: records}
}

// List handles GET /api/v1/checkins?page=&limit=
func (h *CheckInHandler) List(c *fiber.Ctx) error {
	if h.records == nil {
		return response.Fail(c, fiber.StatusNotImplemented, "Check-in listing requires SINK_DRIVER=database")
	}

	params := pagination.FromQuery(c)
	records, total, err := h.records.List(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		log.Printf("❌ Check-in listing failed: %v", err)
		return response.FromError(c, err)
	}

	return response.OK(c, pagination.NewPage(records, params, total))
}
