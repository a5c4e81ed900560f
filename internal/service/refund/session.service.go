package refund

import (
	"sync"
	"time"

	"refund-relay/internal/pkg/wizard"

	"github.com/google/uuid"
)

const defaultSessionTTL = 30 * time.Minute

type session struct {
	id        string
	machine   *wizard.Machine
	expiresAt time.Time
}

// sessionStore keeps open drafts in memory with a sliding expiry.
type sessionStore struct {
	mu    sync.Mutex
	items map[string]*session
	steps []wizard.Step
	ttl   time.Duration
	now   func() time.Time
}

func newSessionStore(steps []wizard.Step, ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		items: map[string]*session{},
		steps: steps,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *sessionStore) create() (*session, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &session{
		id:        uuid.NewString(),
		machine:   wizard.NewMachine(s.steps),
		expiresAt: s.now().Add(s.ttl),
	}
	s.items[sess.id] = sess
	return sess, sess.expiresAt
}

// get returns a live session and pushes its expiry forward. expiresAt is
// only touched under s.mu, so the new deadline is returned alongside.
func (s *sessionStore) get(id string) (*session, time.Time, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, time.Time{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, time.Time{}, false
	}
	now := s.now()
	if now.After(sess.expiresAt) {
		delete(s.items, id)
		return nil, time.Time{}, false
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess, sess.expiresAt, true
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// sweep removes expired sessions that are not mid-submission.
func (s *sessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.items {
		if now.After(sess.expiresAt) && !sess.machine.Submitting() {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
