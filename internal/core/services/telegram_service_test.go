package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkin-bot/internal/core/domain"
)

func TestTelegramUpdateToEvent(t *testing.T) {
	from := &TelegramUser{ID: 20, FirstName: "Budi", LastName: "Santoso", Username: "budi"}

	tests := []struct {
		name    string
		update  TelegramUpdate
		ok      bool
		kind    domain.EventKind
		command string
		args    []string
	}{
		{"no message", TelegramUpdate{UpdateID: 1}, false, 0, "", nil},
		{"bot sender", TelegramUpdate{Message: &TelegramMessage{From: &TelegramUser{ID: 5, IsBot: true}, Text: "/start"}}, false, 0, "", nil},
		{"empty text", TelegramUpdate{Message: &TelegramMessage{From: from}}, false, 0, "", nil},
		{"command", TelegramUpdate{Message: &TelegramMessage{From: from, Text: "/CheckIn"}}, true, domain.EventCommand, "checkin", nil},
		{"command with bot suffix and args", TelegramUpdate{Message: &TelegramMessage{From: from, Text: "/add_user@CheckBot 55 Dewi"}}, true, domain.EventCommand, "add_user", []string{"55", "Dewi"}},
		{"text", TelegramUpdate{Message: &TelegramMessage{From: from, Text: "Toko A"}}, true, domain.EventText, "", nil},
		{"location", TelegramUpdate{Message: &TelegramMessage{From: from, Location: &TelegramLocation{Latitude: -6.2, Longitude: 106.8}}}, true, domain.EventLocation, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := tt.update.ToEvent()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if ev.Kind != tt.kind || ev.Command != tt.command {
				t.Fatalf("unexpected event %+v", ev)
			}
			if len(ev.Args) != len(tt.args) {
				t.Fatalf("args = %v, want %v", ev.Args, tt.args)
			}
			for i := range tt.args {
				if ev.Args[i] != tt.args[i] {
					t.Fatalf("args = %v, want %v", ev.Args, tt.args)
				}
			}
			if ev.Principal.ID != 20 || ev.Principal.DisplayName != "Budi Santoso" || ev.Principal.Handle != "budi" {
				t.Fatalf("unexpected principal %+v", ev.Principal)
			}
		})
	}
}

func TestTelegramServiceReply(t *testing.T) {
	var got telegramSendMessage
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := NewTelegramService(TelegramConfig{BotToken: "TOKEN", APIURL: server.URL + "/"})
	err := svc.Reply(context.Background(), 20, "halo", domain.ReplyOptions{Keyboard: []string{CancelButton}, RequestLocation: true})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	if path != "/botTOKEN/sendMessage" {
		t.Errorf("unexpected path %s", path)
	}
	if got.ChatID != 20 || got.Text != "halo" || got.ReplyMarkup == nil {
		t.Fatalf("unexpected payload %+v", got)
	}
	kb := got.ReplyMarkup.Keyboard
	if len(kb) != 2 || !kb[0][0].RequestLocation || kb[1][0].Text != CancelButton {
		t.Fatalf("unexpected keyboard %+v", kb)
	}
}

func TestTelegramServiceReplyRemovesKeyboard(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := NewTelegramService(TelegramConfig{BotToken: "T", APIURL: server.URL})
	if err := svc.Reply(context.Background(), 20, "selesai", domain.ReplyOptions{RemoveKeyboard: true}); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if string(raw["reply_markup"]) != `{"remove_keyboard":true}` {
		t.Fatalf("unexpected reply_markup %s", raw["reply_markup"])
	}
}

func TestTelegramServiceReplyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer server.Close()

	svc := NewTelegramService(TelegramConfig{BotToken: "T", APIURL: server.URL})
	if err := svc.Reply(context.Background(), 20, "halo", domain.ReplyOptions{}); err == nil {
		t.Fatal("expected error for non-ok response")
	}
}
