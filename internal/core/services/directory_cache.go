package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"checkin-bot/internal/core/domain"
)

// directorySnapshot is never mutated after it is published
type directorySnapshot struct {
	entries  map[int64]domain.DirectoryEntry
	loadedAt time.Time
}

// ReloadReport summarizes one reload
type ReloadReport struct {
	Accepted int
	Skipped  int
}

// DirectoryCache holds the authorization snapshot
type DirectoryCache struct {
	source  DirectorySource
	ownerID int64

	snapshot atomic.Pointer[directorySnapshot]
	reloadMu sync.Mutex
}

// NewDirectoryCache creates a cache with an empty snapshot
func NewDirectoryCache(source DirectorySource, ownerID int64) *DirectoryCache {
	c := &DirectoryCache{source: source, ownerID: ownerID}
	c.snapshot.Store(&directorySnapshot{entries: map[int64]domain.DirectoryEntry{}})
	return c
}

// OwnerID returns the configured owner id
func (c *DirectoryCache) OwnerID() int64 {
	return c.ownerID
}

// Reload replaces the whole snapshot from the directory source
func (c *DirectoryCache) Reload(ctx context.Context) (int, error) {
	report, err := c.ReloadWithReport(ctx)
	return report.Accepted, err
}

// ReloadWithReport is Reload with the skipped row count
func (c *DirectoryCache) ReloadWithReport(ctx context.Context) (ReloadReport, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	rows, err := c.source.FetchAll(ctx)
	if err != nil {
		return ReloadReport{}, fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
	}

	entries := make(map[int64]domain.DirectoryEntry, len(rows))
	var report ReloadReport
	for i, row := range rows {
		entry, err := c.parseRow(row)
		if err != nil {
			report.Skipped++
			log.Printf("⚠️ Directory row %d skipped: %v", i+1, err)
			continue
		}
		if _, dup := entries[entry.ID]; dup {
			log.Printf("⚠️ Directory row %d: duplicate id %d, later row wins", i+1, entry.ID)
		}
		entries[entry.ID] = entry
	}
	report.Accepted = len(entries)

	c.snapshot.Store(&directorySnapshot{entries: entries, loadedAt: time.Now()})
	log.Printf("🔄 Directory reloaded: %d entries, %d skipped", report.Accepted, report.Skipped)
	return report, nil
}

func (c *DirectoryCache) parseRow(row domain.DirectoryRow) (domain.DirectoryEntry, error) {
	rawID := strings.TrimSpace(row.ID)
	if rawID == "" {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: missing id", domain.ErrMalformedDirectoryRow)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: non-numeric id %q", domain.ErrMalformedDirectoryRow, rawID)
	}
	if strings.TrimSpace(row.Role) == "" {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: missing role for id %d", domain.ErrMalformedDirectoryRow, id)
	}
	role, ok := domain.ParseRole(row.Role)
	if !ok {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: unknown role %q for id %d", domain.ErrMalformedDirectoryRow, row.Role, id)
	}
	return domain.DirectoryEntry{
		ID:          id,
		Role:        role,
		DisplayName: strings.TrimSpace(row.DisplayName),
		Handle:      strings.TrimSpace(row.Handle),
	}, nil
}

// Lookup returns the role of id. The owner id is always RoleOwner.
func (c *DirectoryCache) Lookup(id int64) domain.Role {
	if id == c.ownerID {
		return domain.RoleOwner
	}
	if entry, ok := c.snapshot.Load().entries[id]; ok {
		return entry.Role
	}
	return domain.RoleUnauthorized
}

// Entry returns the snapshot row for id
func (c *DirectoryCache) Entry(id int64) (domain.DirectoryEntry, bool) {
	entry, ok := c.snapshot.Load().entries[id]
	return entry, ok
}

// Entries lists snapshot rows holding role, sorted by id
func (c *DirectoryCache) Entries(role domain.Role) []domain.DirectoryEntry {
	snap := c.snapshot.Load()
	out := make([]domain.DirectoryEntry, 0, len(snap.entries))
	for _, entry := range snap.entries {
		if entry.Role == role {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Size returns the number of entries in the current snapshot
func (c *DirectoryCache) Size() int {
	return len(c.snapshot.Load().entries)
}

// LoadedAt returns when the current snapshot was published; zero before the first reload
func (c *DirectoryCache) LoadedAt() time.Time {
	return c.snapshot.Load().loadedAt
}
