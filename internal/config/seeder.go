package config

import (
	"context"
	"fmt"
	"log"
	"strings"

	"checkin-bot/internal/core/domain"
)

// DirectoryUpserter is the write side of the directory used by the seeder
type DirectoryUpserter interface {
	Upsert(ctx context.Context, row domain.DirectoryRow) error
	Count(ctx context.Context) (int64, error)
}

// Seeder handles directory seeding
type Seeder struct {
	directory DirectoryUpserter
}

// NewSeeder creates a new seeder instance
func NewSeeder(directory DirectoryUpserter) *Seeder {
	return &Seeder{directory: directory}
}

// Run seeds the directory from seed ("id:role:name,id:role:name").
// This is for development only and does nothing once the directory has rows.
func (s *Seeder) Run(ctx context.Context, seed string) error {
	rows, err := ParseDirectorySeed(seed)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	count, err := s.directory.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("🌱 Directory already has %d rows, seed skipped", count)
		return nil
	}

	log.Println("🌱 Seeding directory...")
	for _, row := range rows {
		if err := s.directory.Upsert(ctx, row); err != nil {
			return fmt.Errorf("seed directory row %s: %w", row.ID, err)
		}
	}

	log.Printf("✅ Directory seeded with %d rows", len(rows))
	return nil
}

// ParseDirectorySeed parses "id:role[:name]" items separated by commas
func ParseDirectorySeed(seed string) ([]domain.DirectoryRow, error) {
	var rows []domain.DirectoryRow
	for _, item := range strings.Split(seed, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid DIRECTORY_SEED item %q (want id:role[:name])", item)
		}
		row := domain.DirectoryRow{
			ID:   strings.TrimSpace(parts[0]),
			Role: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			row.DisplayName = strings.TrimSpace(parts[2])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
