package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"checkin-bot/internal/core/domain"
)

// RoleService implements the role-management commands. Refusals are
// returned as errors wrapping the domain sentinels; informative no-ops
// and confirmations are returned as reply text.
type RoleService struct {
	directory *DirectoryCache
	writer    DirectoryWriter
}

// NewRoleService creates a role service
func NewRoleService(directory *DirectoryCache, writer DirectoryWriter) *RoleService {
	return &RoleService{directory: directory, writer: writer}
}

// TargetError reports which principal a refused role command was about
type TargetError struct {
	Err     error
	Command string
	Usage   string
	Raw     string      // argument as typed, empty when missing
	ID      int64       // parsed id, zero when Raw did not parse
	Role    domain.Role // role the target was expected to hold
}

func (e *TargetError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("/%s %d: %v", e.Command, e.ID, e.Err)
	}
	return fmt.Sprintf("/%s %q: %v", e.Command, e.Raw, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

// roleTarget is the parsed argument list of a mutation command
type roleTarget struct {
	id   int64
	name string
}

func parseRoleTarget(command string, args []string, withName bool) (roleTarget, error) {
	usage := "<id>"
	if withName {
		usage = "<id> [nama]"
	}
	if len(args) == 0 {
		return roleTarget{}, &TargetError{Err: domain.ErrInvalidPrincipalID, Command: command, Usage: usage}
	}
	raw := strings.TrimSpace(args[0])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return roleTarget{}, &TargetError{Err: domain.ErrInvalidPrincipalID, Command: command, Usage: usage, Raw: raw}
	}
	t := roleTarget{id: id}
	if withName && len(args) > 1 {
		t.name = strings.TrimSpace(strings.Join(args[1:], " "))
	}
	return t, nil
}

func (s *RoleService) ownerTarget(command string, id int64) error {
	if id != s.directory.OwnerID() {
		return nil
	}
	return &TargetError{Err: domain.ErrOwnerImmutable, Command: command, ID: id, Role: domain.RoleOwner}
}

// AddAdmin promotes a principal to admin (owner only)
func (s *RoleService) AddAdmin(ctx context.Context, actor domain.Principal, args []string) (string, error) {
	t, err := parseRoleTarget("add_admin", args, true)
	if err != nil {
		return "", err
	}
	if err := s.ownerTarget("add_admin", t.id); err != nil {
		return "", err
	}
	if current := s.directory.Lookup(t.id); current.AtLeast(domain.RoleAdmin) {
		return fmt.Sprintf("ℹ️ %d sudah berstatus %s.", t.id, roleLabel(current)), nil
	}
	return s.assign(ctx, actor, t, domain.RoleAdmin, fmt.Sprintf("✅ %d ditambahkan sebagai admin.", t.id))
}

// RemoveAdmin demotes an admin to authorized user (owner only)
func (s *RoleService) RemoveAdmin(ctx context.Context, actor domain.Principal, args []string) (string, error) {
	t, err := parseRoleTarget("remove_admin", args, false)
	if err != nil {
		return "", err
	}
	if err := s.ownerTarget("remove_admin", t.id); err != nil {
		return "", err
	}
	if s.directory.Lookup(t.id) != domain.RoleAdmin {
		return "", &TargetError{Err: domain.ErrPrincipalNotFound, Command: "remove_admin", ID: t.id, Role: domain.RoleAdmin}
	}
	return s.assign(ctx, actor, t, domain.RoleAuthorizedUser, fmt.Sprintf("✅ %d tidak lagi admin (tetap sebagai user).", t.id))
}

// AddUser grants check-in access (admin and above). Principals already
// holding a higher tier are left unchanged.
func (s *RoleService) AddUser(ctx context.Context, actor domain.Principal, args []string) (string, error) {
	t, err := parseRoleTarget("add_user", args, true)
	if err != nil {
		return "", err
	}
	if current := s.directory.Lookup(t.id); current.AtLeast(domain.RoleAuthorizedUser) {
		return fmt.Sprintf("ℹ️ %d sudah berstatus %s.", t.id, roleLabel(current)), nil
	}
	return s.assign(ctx, actor, t, domain.RoleAuthorizedUser, fmt.Sprintf("✅ %d ditambahkan sebagai user.", t.id))
}

// RemoveUser revokes check-in access from an authorized user (admin and above)
func (s *RoleService) RemoveUser(ctx context.Context, actor domain.Principal, args []string) (string, error) {
	t, err := parseRoleTarget("remove_user", args, false)
	if err != nil {
		return "", err
	}
	if err := s.ownerTarget("remove_user", t.id); err != nil {
		return "", err
	}
	switch s.directory.Lookup(t.id) {
	case domain.RoleAdmin:
		return fmt.Sprintf("ℹ️ %d adalah admin. Gunakan /remove_admin terlebih dahulu.", t.id), nil
	case domain.RoleUnauthorized:
		return "", &TargetError{Err: domain.ErrPrincipalNotFound, Command: "remove_user", ID: t.id, Role: domain.RoleAuthorizedUser}
	}

	if err := s.writer.Delete(ctx, strconv.FormatInt(t.id, 10)); err != nil {
		return "", fmt.Errorf("delete directory row %d: %w", t.id, err)
	}
	log.Printf("👤 Directory: actor=%d removed user %d", actor.ID, t.id)
	return s.reloadAfterWrite(ctx, fmt.Sprintf("✅ %d dihapus dari daftar user.", t.id)), nil
}

// ListAdmins lists the owner and all admins
func (s *RoleService) ListAdmins() string {
	owner := s.directory.OwnerID()
	return directoryListText("Daftar admin", &owner, s.directory.Entries(domain.RoleAdmin))
}

// ListUsers lists all authorized users
func (s *RoleService) ListUsers() string {
	return directoryListText("Daftar user", nil, s.directory.Entries(domain.RoleAuthorizedUser))
}

// ReloadRoles refreshes the directory snapshot; failures wrap domain.ErrDirectoryUnavailable
func (s *RoleService) ReloadRoles(ctx context.Context) (string, error) {
	report, err := s.directory.ReloadWithReport(ctx)
	if err != nil {
		return "", err
	}
	text := fmt.Sprintf(msgReloadOK, report.Accepted)
	if report.Skipped > 0 {
		text += "\n" + fmt.Sprintf(msgReloadSkipped, report.Skipped)
	}
	return text, nil
}

func (s *RoleService) assign(ctx context.Context, actor domain.Principal, t roleTarget, role domain.Role, okText string) (string, error) {
	row := domain.DirectoryRow{
		ID:   strconv.FormatInt(t.id, 10),
		Role: role.String(),
	}
	if existing, ok := s.directory.Entry(t.id); ok {
		row.DisplayName = existing.DisplayName
		row.Handle = existing.Handle
	}
	if t.name != "" {
		row.DisplayName = t.name
	}

	if err := s.writer.Upsert(ctx, row); err != nil {
		return "", fmt.Errorf("upsert directory row %d as %s: %w", t.id, role, err)
	}
	log.Printf("👤 Directory: actor=%d set %d to %s", actor.ID, t.id, role)
	return s.reloadAfterWrite(ctx, okText), nil
}

func (s *RoleService) reloadAfterWrite(ctx context.Context, okText string) string {
	if _, err := s.directory.Reload(ctx); err != nil {
		log.Printf("⚠️ Directory reload after write failed: %v", err)
		return okText + "\n" + msgReloadAfterSave
	}
	return okText
}

