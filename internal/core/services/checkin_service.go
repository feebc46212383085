package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"checkin-bot/internal/core/domain"
)

// ReentryPolicy decides what /checkin does while a check-in is in progress
type ReentryPolicy string

const (
	// ReentryReset discards the partial session and starts over
	ReentryReset ReentryPolicy = "reset"
	// ReentryReject keeps the partial session and asks the user to finish or cancel
	ReentryReject ReentryPolicy = "reject"
)

// ParseReentryPolicy validates a configured policy
func ParseReentryPolicy(s string) (ReentryPolicy, error) {
	switch p := ReentryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ReentryReset, ReentryReject:
		return p, nil
	case "":
		return ReentryReset, nil
	default:
		return "", fmt.Errorf("invalid check-in reentry policy %q (must be 'reset' or 'reject')", s)
	}
}

// textStep describes a state that consumes free text
type textStep struct {
	prompt   string
	required string
	assign   func(sess *domain.Session, value string)
	next     domain.Step
}

var textSteps = map[domain.Step]textStep{
	domain.StepAwaitingPlaceName: {
		prompt:   msgPromptPlaceName,
		required: msgPlaceNameRequired,
		assign:   func(sess *domain.Session, v string) { sess.PlaceName = &v },
		next:     domain.StepAwaitingRegion,
	},
	domain.StepAwaitingRegion: {
		prompt:   msgPromptRegion,
		required: msgRegionRequired,
		assign:   func(sess *domain.Session, v string) { sess.Region = &v },
		next:     domain.StepAwaitingLocation,
	},
}

func promptFor(step domain.Step) string {
	if ts, ok := textSteps[step]; ok {
		return ts.prompt
	}
	return msgPromptLocation
}

// CheckInService drives the check-in dialogue
type CheckInService struct {
	sessions  *SessionStore
	submitter *SubmissionService
	reentry   ReentryPolicy
}

// NewCheckInService creates the dialogue driver
func NewCheckInService(sessions *SessionStore, submitter *SubmissionService, reentry ReentryPolicy) *CheckInService {
	if reentry == "" {
		reentry = ReentryReset
	}
	return &CheckInService{
		sessions:  sessions,
		submitter: submitter,
		reentry:   reentry,
	}
}

// Start handles /checkin. Under ReentryReject an existing session is kept
// and domain.ErrSessionInProgress is returned.
func (s *CheckInService) Start(p domain.Principal) ([]domain.Reply, error) {
	var replies []domain.Reply
	if current, ok := s.sessions.Get(p.ID); ok {
		if s.reentry == ReentryReject {
			return nil, fmt.Errorf("principal %d at %s: %w", p.ID, current.Step, domain.ErrSessionInProgress)
		}
		log.Printf("🔄 Check-in reset: principal=%d discarded step=%s", p.ID, current.Step)
		replies = append(replies, textReply(p.ID, msgCheckInReset))
	}

	sess := s.sessions.Start(p.ID)
	return append(replies, promptReply(p.ID, promptFor(sess.Step), sess.Step)), nil
}

// Cancel handles /cancel and the cancel button
func (s *CheckInService) Cancel(p domain.Principal) []domain.Reply {
	if _, ok := s.sessions.Get(p.ID); !ok {
		return []domain.Reply{closingReply(p.ID, msgNothingToCancel)}
	}
	s.sessions.End(p.ID)
	return []domain.Reply{closingReply(p.ID, msgCancelled)}
}

// HandleText feeds free text to the principal's session
func (s *CheckInService) HandleText(p domain.Principal, text string) []domain.Reply {
	sess, ok := s.sessions.Get(p.ID)
	if !ok {
		return []domain.Reply{textReply(p.ID, msgNoSession)}
	}

	ts, ok := textSteps[sess.Step]
	if !ok {
		return []domain.Reply{promptReply(p.ID, msgLocationRequired+"\n"+promptFor(sess.Step), sess.Step)}
	}

	value := strings.TrimSpace(text)
	if value == "" {
		return []domain.Reply{promptReply(p.ID, ts.required+"\n"+ts.prompt, sess.Step)}
	}

	ts.assign(sess, value)
	sess.Step = ts.next
	s.sessions.Update(p.ID, sess)
	return []domain.Reply{promptReply(p.ID, promptFor(sess.Step), sess.Step)}
}

// HandleLocation feeds a geolocation to the principal's session and
// submits the check-in when the dialogue is complete
func (s *CheckInService) HandleLocation(ctx context.Context, p domain.Principal, lat, lon float64) []domain.Reply {
	sess, ok := s.sessions.Get(p.ID)
	if !ok {
		return []domain.Reply{textReply(p.ID, msgNoSession)}
	}

	if sess.Step != domain.StepAwaitingLocation {
		return []domain.Reply{promptReply(p.ID, msgTextRequired+"\n"+promptFor(sess.Step), sess.Step)}
	}

	if !validCoordinate(lat, lon) {
		return []domain.Reply{promptReply(p.ID, msgLocationInvalid+"\n"+msgPromptLocation, sess.Step)}
	}

	sess.Latitude = &lat
	sess.Longitude = &lon
	sess.Step = domain.StepSubmitting
	s.sessions.Update(p.ID, sess)

	return []domain.Reply{s.submit(ctx, p, sess)}
}

// Reprompt answers a non-location, non-text event for a principal with a session
func (s *CheckInService) Reprompt(p domain.Principal) (domain.Reply, bool) {
	sess, ok := s.sessions.Get(p.ID)
	if !ok {
		return domain.Reply{}, false
	}
	return promptReply(p.ID, promptFor(sess.Step), sess.Step), true
}

// submit writes the record once; the session is gone afterwards whatever the outcome
func (s *CheckInService) submit(ctx context.Context, p domain.Principal, sess *domain.Session) domain.Reply {
	defer s.sessions.End(p.ID)

	record, err := s.submitter.Submit(ctx, p, sess)
	if err != nil {
		log.Printf("❌ Check-in submit failed: principal=%d: %v", p.ID, err)
		return closingReply(p.ID, msgSubmitFailed)
	}
	return closingReply(p.ID, successText(record))
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
