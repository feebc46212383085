package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"checkin-bot/internal/core/domain"
)

// DefaultTelegramAPIURL is the public Bot API endpoint
const DefaultTelegramAPIURL = "https://api.telegram.org"

// TelegramConfig holds Telegram Bot API configuration
type TelegramConfig struct {
	BotToken      string
	APIURL        string
	WebhookSecret string
}

// TelegramService sends replies through the Telegram Bot API
type TelegramService struct {
	config TelegramConfig
	client *http.Client
}

// NewTelegramService creates a new Telegram service
func NewTelegramService(cfg TelegramConfig) *TelegramService {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultTelegramAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &TelegramService{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// WebhookSecret returns the expected X-Telegram-Bot-Api-Secret-Token value
func (s *TelegramService) WebhookSecret() string {
	return s.config.WebhookSecret
}

// TelegramUser represents the sender of a message
type TelegramUser struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// TelegramChat represents the chat a message belongs to
type TelegramChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// TelegramLocation represents a shared location
type TelegramLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TelegramMessage represents an incoming message
type TelegramMessage struct {
	MessageID int64             `json:"message_id"`
	From      *TelegramUser     `json:"from"`
	Chat      TelegramChat      `json:"chat"`
	Date      int64             `json:"date"`
	Text      string            `json:"text"`
	Location  *TelegramLocation `json:"location"`
}

// TelegramUpdate represents a webhook update
type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

// ToEvent converts an update into a domain event.
// Updates without a human sender or a usable payload are ignored.
func (u TelegramUpdate) ToEvent() (domain.Event, bool) {
	m := u.Message
	if m == nil || m.From == nil || m.From.IsBot {
		return domain.Event{}, false
	}

	p := domain.Principal{
		ID:          m.From.ID,
		DisplayName: strings.TrimSpace(m.From.FirstName + " " + m.From.LastName),
		Handle:      m.From.Username,
	}

	if m.Location != nil {
		return domain.LocationEvent(p, m.Location.Latitude, m.Location.Longitude), true
	}

	if strings.HasPrefix(m.Text, "/") {
		fields := strings.Fields(m.Text)
		name := strings.TrimPrefix(fields[0], "/")
		// "/checkin@SomeBot" in group chats
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		if name != "" {
			return domain.CommandEvent(p, strings.ToLower(name), fields[1:]...), true
		}
	}

	if m.Text == "" {
		return domain.Event{}, false
	}
	return domain.TextEvent(p, m.Text), true
}

type telegramKeyboardButton struct {
	Text            string `json:"text"`
	RequestLocation bool   `json:"request_location,omitempty"`
}

type telegramReplyMarkup struct {
	Keyboard        [][]telegramKeyboardButton `json:"keyboard,omitempty"`
	ResizeKeyboard  bool                       `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard bool                       `json:"one_time_keyboard,omitempty"`
	RemoveKeyboard  bool                       `json:"remove_keyboard,omitempty"`
}

type telegramSendMessage struct {
	ChatID      int64                `json:"chat_id"`
	Text        string               `json:"text"`
	ReplyMarkup *telegramReplyMarkup `json:"reply_markup,omitempty"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func replyMarkup(opts domain.ReplyOptions) *telegramReplyMarkup {
	if opts.RemoveKeyboard {
		return &telegramReplyMarkup{RemoveKeyboard: true}
	}
	if !opts.RequestLocation && len(opts.Keyboard) == 0 {
		return nil
	}

	markup := &telegramReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	if opts.RequestLocation {
		markup.Keyboard = append(markup.Keyboard, []telegramKeyboardButton{{Text: ButtonShareLocation, RequestLocation: true}})
	}
	for _, label := range opts.Keyboard {
		markup.Keyboard = append(markup.Keyboard, []telegramKeyboardButton{{Text: label}})
	}
	return markup
}

// Reply sends a text message to a private chat with the principal
func (s *TelegramService) Reply(ctx context.Context, principalID int64, text string, opts domain.ReplyOptions) error {
	payload := telegramSendMessage{
		ChatID:      principalID,
		Text:        text,
		ReplyMarkup: replyMarkup(opts),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.config.APIURL, s.config.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sendMessage response failed: %w", err)
	}

	var result telegramResponse
	if err := json.Unmarshal(body, &result); err != nil || resp.StatusCode != http.StatusOK || !result.OK {
		return fmt.Errorf("telegram sendMessage error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
