package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"checkin-bot/internal/core/domain"
)

// commandHandler answers one command for an already authorized principal
type commandHandler func(ctx context.Context, ev domain.Event) []domain.Reply

// command is an entry of the dispatch table
type command struct {
	minRole     domain.Role
	description string
	handle      commandHandler
}

// BotService routes inbound events to the check-in dialogue and the
// role-management commands. Events of one principal are handled one at a time.
type BotService struct {
	gate     *Gate
	checkins *CheckInService
	roles    *RoleService
	replier  Replier

	commands map[string]command
	locks    *principalLocks
}

// NewBotService wires the dispatch table
func NewBotService(gate *Gate, checkins *CheckInService, roles *RoleService, replier Replier) *BotService {
	s := &BotService{
		gate:     gate,
		checkins: checkins,
		roles:    roles,
		replier:  replier,
		locks:    newPrincipalLocks(),
	}
	s.commands = map[string]command{
		"start":        {domain.RoleUnauthorized, "mulai percakapan", s.handleStart},
		"help":         {domain.RoleUnauthorized, "daftar perintah", s.handleHelp},
		"checkin":      {domain.RoleAuthorizedUser, "mulai check-in", s.handleCheckIn},
		"cancel":       {domain.RoleAuthorizedUser, "batalkan check-in", s.handleCancel},
		"add_user":     {domain.RoleAdmin, "<id> [nama] beri akses user", s.roleMutation(s.roles.AddUser)},
		"remove_user":  {domain.RoleAdmin, "<id> cabut akses user", s.roleMutation(s.roles.RemoveUser)},
		"list_admins":  {domain.RoleAdmin, "daftar admin", s.roleQuery(s.roles.ListAdmins)},
		"list_users":   {domain.RoleAdmin, "daftar user", s.roleQuery(s.roles.ListUsers)},
		"reload_roles": {domain.RoleAdmin, "muat ulang data akses", s.handleReloadRoles},
		"add_admin":    {domain.RoleOwner, "<id> [nama] jadikan admin", s.roleMutation(s.roles.AddAdmin)},
		"remove_admin": {domain.RoleOwner, "<id> cabut status admin", s.roleMutation(s.roles.RemoveAdmin)},
	}
	return s
}

// Handle processes an event and delivers the replies through the replier.
// Replies are sent before the next event of the same principal is processed.
func (s *BotService) Handle(ctx context.Context, ev domain.Event) []domain.Reply {
	unlock := s.locks.lock(ev.Principal.ID)
	defer unlock()

	replies := s.process(ctx, ev)
	for _, r := range replies {
		if err := s.replier.Reply(ctx, r.PrincipalID, r.Text, r.Options); err != nil {
			log.Printf("❌ Reply to %d failed: %v", r.PrincipalID, err)
		}
	}
	return replies
}

func (s *BotService) process(ctx context.Context, ev domain.Event) []domain.Reply {
	p := ev.Principal
	switch ev.Kind {
	case domain.EventCommand:
		return s.dispatchCommand(ctx, ev)

	case domain.EventText:
		if !s.gate.IsAuthorized(p.ID) {
			return s.deny(p, "text")
		}
		if strings.EqualFold(strings.TrimSpace(ev.Text), CancelButton) {
			return s.checkins.Cancel(p)
		}
		return s.checkins.HandleText(p, ev.Text)

	case domain.EventLocation:
		if !s.gate.IsAuthorized(p.ID) {
			return s.deny(p, "location")
		}
		return s.checkins.HandleLocation(ctx, p, ev.Latitude, ev.Longitude)
	}

	return nil
}

func (s *BotService) dispatchCommand(ctx context.Context, ev domain.Event) []domain.Reply {
	p := ev.Principal
	name := strings.ToLower(strings.TrimPrefix(ev.Command, "/"))

	cmd, ok := s.commands[name]
	if !ok {
		if !s.gate.IsAuthorized(p.ID) {
			return s.deny(p, name)
		}
		replies := []domain.Reply{textReply(p.ID, msgUnknownCommand)}
		if prompt, active := s.checkins.Reprompt(p); active {
			replies = append(replies, prompt)
		}
		return replies
	}

	if err := s.gate.Require(p.ID, cmd.minRole); err != nil {
		return s.deny(p, name)
	}
	return cmd.handle(ctx, ev)
}

func (s *BotService) deny(p domain.Principal, what string) []domain.Reply {
	log.Printf("⛔ Denied %s for principal %d (%s)", what, p.ID, s.gate.Role(p.ID))
	return []domain.Reply{textReply(p.ID, msgDenied)}
}

func (s *BotService) handleStart(_ context.Context, ev domain.Event) []domain.Reply {
	p := ev.Principal
	return []domain.Reply{textReply(p.ID, greetingText(p, s.gate.Role(p.ID)))}
}

func (s *BotService) handleHelp(_ context.Context, ev domain.Event) []domain.Reply {
	role := s.gate.Role(ev.Principal.ID)
	names := make([]string, 0, len(s.commands))
	for name, cmd := range s.commands {
		if role.AtLeast(cmd.minRole) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := s.commands[names[i]].minRole, s.commands[names[j]].minRole
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	b.WriteString("📖 Perintah yang tersedia:")
	for _, name := range names {
		b.WriteString("\n/" + name + " - " + s.commands[name].description)
	}
	return []domain.Reply{textReply(ev.Principal.ID, b.String())}
}

func (s *BotService) handleCheckIn(_ context.Context, ev domain.Event) []domain.Reply {
	replies, err := s.checkins.Start(ev.Principal)
	if err != nil {
		return s.errorReplies(ev.Principal, err)
	}
	return replies
}

func (s *BotService) handleCancel(_ context.Context, ev domain.Event) []domain.Reply {
	return s.checkins.Cancel(ev.Principal)
}

func (s *BotService) handleReloadRoles(ctx context.Context, ev domain.Event) []domain.Reply {
	text, err := s.roles.ReloadRoles(ctx)
	if err != nil {
		return s.errorReplies(ev.Principal, err)
	}
	return []domain.Reply{textReply(ev.Principal.ID, text)}
}

func (s *BotService) roleMutation(fn func(context.Context, domain.Principal, []string) (string, error)) commandHandler {
	return func(ctx context.Context, ev domain.Event) []domain.Reply {
		text, err := fn(ctx, ev.Principal, ev.Args)
		if err != nil {
			return s.errorReplies(ev.Principal, err)
		}
		return []domain.Reply{textReply(ev.Principal.ID, text)}
	}
}

func (s *BotService) roleQuery(fn func() string) commandHandler {
	return func(_ context.Context, ev domain.Event) []domain.Reply {
		return []domain.Reply{textReply(ev.Principal.ID, fn())}
	}
}

// errorReplies turns a refused or failed command into the replies for p
func (s *BotService) errorReplies(p domain.Principal, err error) []domain.Reply {
	var target *TargetError
	errors.As(err, &target)

	switch {
	case errors.Is(err, domain.ErrSessionInProgress):
		replies := []domain.Reply{textReply(p.ID, msgCheckInRejected)}
		if prompt, active := s.checkins.Reprompt(p); active {
			replies = append(replies, prompt)
		}
		return replies
	case errors.Is(err, domain.ErrOwnerImmutable):
		return []domain.Reply{textReply(p.ID, msgOwnerImmutable)}
	case errors.Is(err, domain.ErrInvalidPrincipalID) && target != nil:
		if target.Raw == "" {
			return []domain.Reply{textReply(p.ID, fmt.Sprintf(msgUsage, target.Command, target.Usage))}
		}
		return []domain.Reply{textReply(p.ID, fmt.Sprintf(msgInvalidID, target.Raw))}
	case errors.Is(err, domain.ErrPrincipalNotFound) && target != nil:
		return []domain.Reply{textReply(p.ID, fmt.Sprintf("ℹ️ %d tidak terdaftar sebagai %s.", target.ID, roleLabel(target.Role)))}
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		log.Printf("❌ Directory reload for %d failed: %v", p.ID, err)
		return []domain.Reply{textReply(p.ID, msgReloadFailed)}
	}

	log.Printf("❌ Command from %d failed: %v", p.ID, err)
	return []domain.Reply{textReply(p.ID, msgDirectoryWrite)}
}

// principalLocks serializes work per principal id
type principalLocks struct {
	mu    sync.Mutex
	locks map[int64]*principalLock
}

type principalLock struct {
	sync.Mutex
	refs int
}

func newPrincipalLocks() *principalLocks {
	return &principalLocks{locks: make(map[int64]*principalLock)}
}

func (l *principalLocks) lock(id int64) func() {
	l.mu.Lock()
	pl, ok := l.locks[id]
	if !ok {
		pl = &principalLock{}
		l.locks[id] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.Lock()
	return func() {
		pl.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
