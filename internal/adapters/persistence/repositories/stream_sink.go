package repositories

import (
	"context"

	"checkin-bot/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// StreamSink appends check-in records to a Redis stream, one entry per record
type StreamSink struct {
	client *redis.Client
	stream string
}

// NewStreamSink creates a Redis stream sink
func NewStreamSink(client *redis.Client, stream string) *StreamSink {
	return &StreamSink{client: client, stream: stream}
}

// Append writes the record fields in their fixed order with XADD
func (s *StreamSink) Append(ctx context.Context, record domain.CheckInRecord) error {
	fields := record.Fields()
	values := make([]interface{}, 0, 2*(len(fields)+1))
	values = append(values, "id", record.ID)
	for i, name := range domain.FieldNames {
		values = append(values, name, fields[i])
	}

	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}).Err()
}

// Ping checks the Redis connection
func (s *StreamSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
