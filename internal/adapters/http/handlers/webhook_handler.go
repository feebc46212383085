package handlers

import (
	"context"
	"log"

	"checkin-bot/internal/core/domain"
	"checkin-bot/internal/core/services"
	"checkin-bot/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler processes one inbound bot event
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) []domain.Reply
}

// WebhookHandler receives Telegram updates
type WebhookHandler struct {
	bot EventHandler
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(bot EventHandler) *WebhookHandler {
	return &WebhookHandler{bot: bot}
}

// Telegram handles POST /webhook/telegram.
// Updates that carry no usable message are acknowledged so Telegram stops redelivering them.
func (h *WebhookHandler) Telegram(c *fiber.Ctx) error {
	var update services.TelegramUpdate
	if err := c.BodyParser(&update); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid update payload")
	}

	ev, ok := update.ToEvent()
	if !ok {
		return c.SendStatus(fiber.StatusOK)
	}

	replies := h.bot.Handle(c.UserContext(), ev)
	if len(replies) == 0 {
		log.Printf("⚠️ Update %d from %d produced no reply", update.UpdateID, ev.Principal.ID)
	}
	return c.SendStatus(fiber.StatusOK)
}
