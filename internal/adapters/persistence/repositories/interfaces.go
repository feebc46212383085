package repositories

import (
	"context"

	"checkin-bot/internal/adapters/persistence/models"
	"checkin-bot/internal/core/domain"
)

// DirectoryRepository defines directory repository interface.
// It satisfies services.DirectorySource and services.DirectoryWriter.
type DirectoryRepository interface {
	FetchAll(ctx context.Context) ([]domain.DirectoryRow, error)
	Upsert(ctx context.Context, row domain.DirectoryRow) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// CheckInRepository defines check-in record repository interface.
// Append satisfies services.RecordSink.
type CheckInRepository interface {
	Append(ctx context.Context, record domain.CheckInRecord) error
	List(ctx context.Context, offset, limit int) ([]*models.CheckInRecord, int64, error)
}
