package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"checkin-bot/internal/core/domain"
)

// --- mocks ---

// mockDirectoryStore is both the source and the writer of the directory
type mockDirectoryStore struct {
	mu        sync.Mutex
	rows      map[string]domain.DirectoryRow
	extra     []domain.DirectoryRow // returned as-is after rows, for malformed input
	fetchErr  error
	writeErr  error
	fetches   int
	upserts   int
	deletions int
}

func newMockDirectoryStore(rows ...domain.DirectoryRow) *mockDirectoryStore {
	m := &mockDirectoryStore{rows: map[string]domain.DirectoryRow{}}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *mockDirectoryStore) FetchAll(ctx context.Context) ([]domain.DirectoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]domain.DirectoryRow, 0, len(m.rows)+len(m.extra))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return append(out, m.extra...), nil
}

func (m *mockDirectoryStore) Upsert(ctx context.Context, row domain.DirectoryRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.rows[row.ID] = row
	return nil
}

func (m *mockDirectoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletions++
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.rows, id)
	return nil
}

func (m *mockDirectoryStore) row(id string) (domain.DirectoryRow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	return r, ok
}

// mockRecordSink records every Append call
type mockRecordSink struct {
	mu      sync.Mutex
	records []domain.CheckInRecord
	calls   int
	err     error
	block   chan struct{} // when set, Append waits on it and ignores ctx
}

func (m *mockRecordSink) Append(ctx context.Context, record domain.CheckInRecord) error {
	m.mu.Lock()
	m.calls++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockRecordSink) appendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockReplier captures outbound replies
type mockReplier struct {
	mu      sync.Mutex
	replies []domain.Reply
	err     error
}

func (m *mockReplier) Reply(ctx context.Context, principalID int64, text string, opts domain.ReplyOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, domain.Reply{PrincipalID: principalID, Text: text, Options: opts})
	return m.err
}

var errBoom = errors.New("boom")

const (
	testOwnerID int64 = 1
	testAdminID int64 = 10
	testUserID  int64 = 20
	testGuestID int64 = 99
)

func testDirectoryRows() []domain.DirectoryRow {
	return []domain.DirectoryRow{
		{ID: "10", Role: "admin", DisplayName: "Ani"},
		{ID: "20", Role: "user", DisplayName: "Budi", Handle: "budi"},
	}
}

// newTestDirectory returns a loaded cache over a mock store
func newTestDirectory() (*DirectoryCache, *mockDirectoryStore) {
	store := newMockDirectoryStore(testDirectoryRows()...)
	dir := NewDirectoryCache(store, testOwnerID)
	if _, err := dir.Reload(context.Background()); err != nil {
		panic(err)
	}
	return dir, store
}

func principal(id int64) domain.Principal {
	return domain.Principal{ID: id, DisplayName: "Tester", Handle: "tester"}
}
