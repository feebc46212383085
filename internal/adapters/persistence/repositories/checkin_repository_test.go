package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"checkin-bot/internal/core/domain"
)

func testRecord(n int, at time.Time) domain.CheckInRecord {
	return domain.CheckInRecord{
		ID:          fmt.Sprintf("rec-%d", n),
		SubmitterID: 20,
		DisplayName: "Budi",
		Handle:      "budi",
		Timestamp:   at,
		PlaceName:   fmt.Sprintf("Toko %d", n),
		Region:      "Jakarta",
		Latitude:    -6.2,
		Longitude:   106.8,
		MapLink:     "https://maps.google.com/?q=-6.2,106.8",
	}
}

func TestCheckInListNewestFirst(t *testing.T) {
	repo := NewCheckInRepository(openTestDB(t))
	ctx := context.Background()
	at := time.Date(2026, time.March, 2, 9, 30, 15, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		if err := repo.Append(ctx, testRecord(i, at.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		// created_at orders the listing
		time.Sleep(10 * time.Millisecond)
	}

	records, total, err := repo.List(ctx, 0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(records) != 2 || records[0].ID != "rec-3" || records[1].ID != "rec-2" {
		t.Fatalf("unexpected first page %+v", records)
	}

	records, total, err = repo.List(ctx, 2, 2)
	if err != nil || total != 3 || len(records) != 1 || records[0].ID != "rec-1" {
		t.Fatalf("unexpected second page %+v, total %d, err %v", records, total, err)
	}

	r := records[0]
	if r.Timestamp != "2026-03-02 09:31:15" || r.PlaceName != "Toko 1" || r.Latitude != -6.2 {
		t.Fatalf("record not stored as written: %+v", r)
	}
}

func TestCheckInAppendRejectsDuplicateID(t *testing.T) {
	repo := NewCheckInRepository(openTestDB(t))
	ctx := context.Background()
	rec := testRecord(1, time.Now())

	if err := repo.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, rec); err == nil {
		t.Fatal("records are append-only; a second write with the same id must fail")
	}
	if _, total, _ := repo.List(ctx, 0, 10); total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
}
