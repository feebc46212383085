package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"checkin-bot/internal/core/domain"
)

type botFixture struct {
	bot      *BotService
	dir      *DirectoryCache
	store    *mockDirectoryStore
	sink     *mockRecordSink
	sessions *SessionStore
	replier  *mockReplier
}

func newBotFixture() *botFixture {
	return newBotFixtureWith(ReentryReset)
}

func newBotFixtureWith(reentry ReentryPolicy) *botFixture {
	dir, store := newTestDirectory()
	sink := &mockRecordSink{}
	sessions := NewSessionStore(0, 0)
	checkins := NewCheckInService(sessions, newTestSubmitter(sink, time.Second), reentry)
	replier := &mockReplier{}
	bot := NewBotService(NewGate(dir), checkins, NewRoleService(dir, store), replier)
	return &botFixture{bot: bot, dir: dir, store: store, sink: sink, sessions: sessions, replier: replier}
}

func cmd(id int64, name string, args ...string) domain.Event {
	return domain.CommandEvent(principal(id), name, args...)
}

func TestBotDeniesBeforeSideEffects(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()

	events := []domain.Event{
		cmd(testGuestID, "checkin"),
		cmd(testGuestID, "add_user", "99"),
		cmd(testUserID, "add_user", "77"),
		cmd(testUserID, "reload_roles"),
		cmd(testAdminID, "add_admin", "20"),
		cmd(testAdminID, "remove_admin", "10"),
		domain.TextEvent(principal(testGuestID), "Toko A"),
		domain.LocationEvent(principal(testGuestID), 1, 1),
	}
	for _, ev := range events {
		replies := f.bot.Handle(ctx, ev)
		if len(replies) != 1 || replies[0].Text != msgDenied {
			t.Errorf("%v %s: expected denial, got %+v", ev.Kind, ev.Command, replies)
		}
	}

	if f.store.upserts != 0 || f.store.deletions != 0 {
		t.Fatal("denied command wrote to the directory")
	}
	if f.store.fetches != 1 {
		t.Fatalf("denied reload_roles hit the source: %d fetches", f.store.fetches)
	}
	if f.sessions.Count() != 0 || f.sink.appendCalls() != 0 {
		t.Fatal("denied event touched the check-in state")
	}
}

func TestBotStartAndHelpAreOpen(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()

	greeting := f.bot.Handle(ctx, cmd(testGuestID, "start"))
	if len(greeting) != 1 || !strings.Contains(greeting[0].Text, "belum terdaftar") {
		t.Fatalf("unexpected greeting %+v", greeting)
	}

	guestHelp := f.bot.Handle(ctx, cmd(testGuestID, "help"))[0].Text
	if strings.Contains(guestHelp, "/checkin") {
		t.Errorf("guest help lists /checkin: %q", guestHelp)
	}

	userHelp := f.bot.Handle(ctx, cmd(testUserID, "help"))[0].Text
	if !strings.Contains(userHelp, "/checkin") || strings.Contains(userHelp, "/add_user") {
		t.Errorf("unexpected user help %q", userHelp)
	}

	ownerHelp := f.bot.Handle(ctx, cmd(testOwnerID, "help"))[0].Text
	if !strings.Contains(ownerHelp, "/add_admin") || !strings.Contains(ownerHelp, "/list_users") {
		t.Errorf("unexpected owner help %q", ownerHelp)
	}
	// lower tiers first
	if strings.Index(ownerHelp, "/checkin") > strings.Index(ownerHelp, "/add_admin") {
		t.Errorf("help not ordered by tier: %q", ownerHelp)
	}
}

func TestBotFullCheckInSendsReplies(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()
	p := principal(testUserID)

	f.bot.Handle(ctx, cmd(testUserID, "checkin"))
	f.bot.Handle(ctx, domain.TextEvent(p, "Toko A"))
	f.bot.Handle(ctx, domain.TextEvent(p, "Jakarta"))
	f.bot.Handle(ctx, domain.LocationEvent(p, -6.2, 106.8))

	if f.sink.appendCalls() != 1 {
		t.Fatalf("expected one record, got %d", f.sink.appendCalls())
	}
	if len(f.replier.replies) != 4 {
		t.Fatalf("expected 4 sent replies, got %d", len(f.replier.replies))
	}
	last := f.replier.replies[3]
	if last.PrincipalID != testUserID || !strings.Contains(last.Text, "maps.google.com") {
		t.Fatalf("unexpected final reply %+v", last)
	}
}

func TestBotCancelButton(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()
	p := principal(testUserID)

	f.bot.Handle(ctx, cmd(testUserID, "checkin"))
	replies := f.bot.Handle(ctx, domain.TextEvent(p, " batal "))
	if len(replies) != 1 || replies[0].Text != msgCancelled {
		t.Fatalf("unexpected replies %+v", replies)
	}
	if f.sessions.Count() != 0 {
		t.Fatal("session survived the cancel button")
	}
}

func TestBotUnknownCommandReprompts(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()

	f.bot.Handle(ctx, cmd(testUserID, "checkin"))
	replies := f.bot.Handle(ctx, cmd(testUserID, "foo"))
	if len(replies) != 2 || replies[0].Text != msgUnknownCommand || replies[1].Text != msgPromptPlaceName {
		t.Fatalf("unexpected replies %+v", replies)
	}

	if replies := f.bot.Handle(ctx, cmd(testGuestID, "foo")); replies[0].Text != msgDenied {
		t.Fatalf("unknown command from guest should be denied, got %+v", replies)
	}
}

func TestBotRoleCommandsApplyImmediately(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()

	f.bot.Handle(ctx, cmd(testAdminID, "add_user", "77"))
	replies := f.bot.Handle(ctx, cmd(77, "checkin"))
	if lastText(replies) != msgPromptPlaceName {
		t.Fatalf("new user cannot check in: %+v", replies)
	}

	f.bot.Handle(ctx, cmd(testAdminID, "remove_user", "77"))
	replies = f.bot.Handle(ctx, domain.TextEvent(principal(77), "Toko A"))
	if lastText(replies) != msgDenied {
		t.Fatalf("removed user still served: %+v", replies)
	}
}

func TestBotReplyFailureIsLogged(t *testing.T) {
	f := newBotFixture()
	f.replier.err = errBoom

	replies := f.bot.Handle(context.Background(), cmd(testUserID, "checkin"))
	if len(replies) != 1 {
		t.Fatalf("expected replies to be returned despite send failure, got %+v", replies)
	}
	if f.sessions.Count() != 1 {
		t.Fatal("send failure should not undo the state transition")
	}
}

func TestBotSerializesPerPrincipal(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()
	p := principal(testUserID)

	f.bot.Handle(ctx, cmd(testUserID, "checkin"))
	f.bot.Handle(ctx, domain.TextEvent(p, "Toko A"))
	f.bot.Handle(ctx, domain.TextEvent(p, "Jakarta"))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.bot.Handle(ctx, domain.LocationEvent(p, -6.2, 106.8))
		}()
	}
	wg.Wait()

	if f.sink.appendCalls() != 1 {
		t.Fatalf("concurrent locations produced %d records", f.sink.appendCalls())
	}
}

func TestBotRoleRefusalReplies(t *testing.T) {
	tests := []struct {
		name string
		ev   domain.Event
		want string
	}{
		{"owner add_admin", cmd(testOwnerID, "add_admin", "1"), msgOwnerImmutable},
		{"owner remove_user", cmd(testAdminID, "remove_user", "1"), msgOwnerImmutable},
		{"missing id", cmd(testAdminID, "add_user"), fmt.Sprintf(msgUsage, "add_user", "<id> [nama]")},
		{"bad id", cmd(testAdminID, "remove_user", "abc"), fmt.Sprintf(msgInvalidID, "abc")},
		{"zero id", cmd(testOwnerID, "add_admin", "0"), fmt.Sprintf(msgInvalidID, "0")},
		{"not an admin", cmd(testOwnerID, "remove_admin", "20"), "ℹ️ 20 tidak terdaftar sebagai admin."},
		{"not a user", cmd(testAdminID, "remove_user", "99"), "ℹ️ 99 tidak terdaftar sebagai user."},
		{"admin via remove_user", cmd(testAdminID, "remove_user", "10"), "ℹ️ 10 adalah admin. Gunakan /remove_admin terlebih dahulu."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBotFixture()
			replies := f.bot.Handle(context.Background(), tt.ev)
			if len(replies) != 1 || replies[0].Text != tt.want {
				t.Fatalf("got %+v, want %q", replies, tt.want)
			}
			if f.store.upserts != 0 || f.store.deletions != 0 {
				t.Fatal("refused command wrote to the directory")
			}
		})
	}
}

func TestBotDirectoryFailureReplies(t *testing.T) {
	f := newBotFixture()
	ctx := context.Background()

	f.store.writeErr = errBoom
	if replies := f.bot.Handle(ctx, cmd(testAdminID, "add_user", "55")); lastText(replies) != msgDirectoryWrite {
		t.Fatalf("unexpected write failure replies %+v", replies)
	}

	f.store.fetchErr = errBoom
	if replies := f.bot.Handle(ctx, cmd(testAdminID, "reload_roles")); lastText(replies) != msgReloadFailed {
		t.Fatalf("unexpected reload failure replies %+v", replies)
	}
	// last good snapshot still serves
	if f.dir.Lookup(testUserID) != domain.RoleAuthorizedUser {
		t.Fatal("failed reload dropped the snapshot")
	}
}

func TestBotCheckInInProgressRejected(t *testing.T) {
	f := newBotFixtureWith(ReentryReject)
	ctx := context.Background()
	p := principal(testUserID)

	f.bot.Handle(ctx, cmd(testUserID, "checkin"))
	f.bot.Handle(ctx, domain.TextEvent(p, "Toko A"))

	replies := f.bot.Handle(ctx, cmd(testUserID, "checkin"))
	if len(replies) != 2 || replies[0].Text != msgCheckInRejected || replies[1].Text != msgPromptRegion {
		t.Fatalf("unexpected replies %+v", replies)
	}
	sess, ok := f.sessions.Get(testUserID)
	if !ok || sess.Step != domain.StepAwaitingRegion || *sess.PlaceName != "Toko A" {
		t.Fatalf("session should be untouched: %+v", sess)
	}
}
