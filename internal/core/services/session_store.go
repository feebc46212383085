package services

import (
	"log"
	"strconv"
	"time"

	"checkin-bot/internal/core/domain"

	"github.com/patrickmn/go-cache"
)

// SessionStore keeps check-in sessions in memory, one per principal.
// Sessions idle longer than the TTL are evicted by the cache janitor.
type SessionStore struct {
	items *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionStore creates a store; ttl <= 0 disables idle eviction
func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	expiration := ttl
	if ttl <= 0 {
		expiration = cache.NoExpiration
	}
	s := &SessionStore{
		items: cache.New(expiration, sweepInterval),
		ttl:   ttl,
		now:   time.Now,
	}
	s.items.OnEvicted(func(key string, v interface{}) {
		sess, ok := v.(*domain.Session)
		if !ok || s.ttl <= 0 {
			return
		}
		// OnEvicted also fires for End; only report real idle expiry
		if idle := s.now().Sub(sess.UpdatedAt); idle >= s.ttl {
			log.Printf("🧹 Session evicted: principal=%s step=%s idle=%s", key, sess.Step, idle.Truncate(time.Second))
		}
	})
	return s
}

func sessionKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Get returns a copy of the principal's session
func (s *SessionStore) Get(id int64) (*domain.Session, bool) {
	v, ok := s.items.Get(sessionKey(id))
	if !ok {
		return nil, false
	}
	return v.(*domain.Session).Clone(), true
}

// Start creates a fresh session, overwriting any session in progress
func (s *SessionStore) Start(id int64) *domain.Session {
	now := s.now()
	sess := &domain.Session{
		PrincipalID: id,
		Step:        domain.StepAwaitingPlaceName,
		StartedAt:   now,
		UpdatedAt:   now,
	}
	s.items.Set(sessionKey(id), sess, cache.DefaultExpiration)
	return sess.Clone()
}

// Update stores sess as the principal's session and refreshes its idle timer
func (s *SessionStore) Update(id int64, sess *domain.Session) {
	stored := sess.Clone()
	stored.PrincipalID = id
	stored.UpdatedAt = s.now()
	s.items.Set(sessionKey(id), stored, cache.DefaultExpiration)
}

// End deletes the principal's session; deleting a missing session is a no-op
func (s *SessionStore) End(id int64) {
	s.items.Delete(sessionKey(id))
}

// Count returns the number of live sessions. Expired sessions not yet
// removed by Sweep are not counted.
func (s *SessionStore) Count() int {
	return len(s.items.Items())
}

// Sweep removes expired sessions now instead of waiting for the janitor
func (s *SessionStore) Sweep() {
	s.items.DeleteExpired()
}
