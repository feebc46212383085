package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"checkin-bot/internal/core/domain"

	"github.com/google/uuid"
)

// mapLinkTemplate is filled with latitude and longitude
const mapLinkTemplate = "https://maps.google.com/?q=%s,%s"

// MapLink derives the map link for a coordinate pair
func MapLink(lat, lon float64) string {
	return fmt.Sprintf(mapLinkTemplate, domain.FormatCoordinate(lat), domain.FormatCoordinate(lon))
}

// SubmissionService turns completed sessions into records and writes them to the sink
type SubmissionService struct {
	sink     RecordSink
	location *time.Location
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
}

// NewSubmissionService creates a submission service.
// Timestamps are taken in loc; each Append is bounded by timeout.
func NewSubmissionService(sink RecordSink, loc *time.Location, timeout time.Duration) *SubmissionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SubmissionService{
		sink:     sink,
		location: loc,
		timeout:  timeout,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// BuildRecord enriches a completed session with identity, timestamp and map link
func (s *SubmissionService) BuildRecord(p domain.Principal, sess *domain.Session) (domain.CheckInRecord, error) {
	if sess.PlaceName == nil || sess.Region == nil || sess.Latitude == nil || sess.Longitude == nil {
		return domain.CheckInRecord{}, fmt.Errorf("%w: session %d is incomplete at step %s", domain.ErrValidation, p.ID, sess.Step)
	}
	return domain.CheckInRecord{
		ID:          s.newID(),
		SubmitterID: p.ID,
		DisplayName: p.DisplayName,
		Handle:      p.Handle,
		Timestamp:   s.now().In(s.location),
		PlaceName:   *sess.PlaceName,
		Region:      *sess.Region,
		Latitude:    *sess.Latitude,
		Longitude:   *sess.Longitude,
		MapLink:     MapLink(*sess.Latitude, *sess.Longitude),
	}, nil
}

// Submit builds the record and appends it to the sink exactly once
func (s *SubmissionService) Submit(ctx context.Context, p domain.Principal, sess *domain.Session) (domain.CheckInRecord, error) {
	record, err := s.BuildRecord(p, sess)
	if err != nil {
		return domain.CheckInRecord{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.appendWithDeadline(ctx, record); err != nil {
		return record, fmt.Errorf("%w: record %s: %v", domain.ErrSinkWriteFailure, record.ID, err)
	}

	log.Printf("✅ Check-in saved: id=%s principal=%d place=%q (%s)", record.ID, p.ID, record.PlaceName, time.Since(start).Truncate(time.Millisecond))
	return record, nil
}

// appendWithDeadline stops waiting once ctx is done, even if the sink ignores ctx
func (s *SubmissionService) appendWithDeadline(ctx context.Context, record domain.CheckInRecord) error {
	done := make(chan error, 1)
	go func() {
		done <- s.sink.Append(ctx, record)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
