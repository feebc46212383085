package services

import (
	"context"

	"checkin-bot/internal/core/domain"
)

// DirectorySource is the bulk read of the external directory
type DirectorySource interface {
	FetchAll(ctx context.Context) ([]domain.DirectoryRow, error)
}

// DirectoryWriter mutates the external directory (role management)
type DirectoryWriter interface {
	Upsert(ctx context.Context, row domain.DirectoryRow) error
	Delete(ctx context.Context, id string) error
}

// RecordSink is the append-only store of completed check-ins
type RecordSink interface {
	Append(ctx context.Context, record domain.CheckInRecord) error
}

// Replier delivers outbound messages to a principal
type Replier interface {
	Reply(ctx context.Context, principalID int64, text string, opts domain.ReplyOptions) error
}
