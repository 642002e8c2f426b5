package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// entry pairs a session with the lock serialising its requests.
type entry struct {
	mu       sync.Mutex
	session  *docmerge.Session
	lastSeen time.Time // guarded by Store.mu
}

// Store keeps one docmerge.Session per client id. Sessions idle for longer
// than the TTL are evicted.
type Store struct {
	mu       sync.Mutex
	opts     docmerge.Options
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

// NewStore returns an empty store creating sessions with opts. A ttl of zero
// or less keeps sessions until they are dropped.
func NewStore(opts docmerge.Options, ttl time.Duration) *Store {
	return &Store{opts: opts, ttl: ttl, now: time.Now, sessions: make(map[string]*entry)}
}

// NewID returns a fresh client id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the form issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// lookup returns the entry for id and marks it used. With create set, a
// missing entry is added after expired ones are swept.
func (s *Store) lookup(id string, create bool) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e, ok := s.sessions[id]
	if ok && s.expired(e, now) {
		delete(s.sessions, id)
		e, ok = nil, false
	}
	if !ok {
		if !create {
			return nil
		}
		s.sweepLocked(now)
		e = &entry{session: docmerge.NewSession(s.opts)}
		s.sessions[id] = e
	}
	e.lastSeen = now
	return e
}

func (s *Store) touch(e *entry) {
	s.mu.Lock()
	e.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

func (s *Store) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// With runs fn while holding the session of id, creating it on first use.
func (s *Store) With(id string, fn func(*docmerge.Session) error) error {
	e := s.lookup(id, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	defer s.touch(e)
	return fn(e.session)
}

// View runs fn on the session of id without creating one. Unknown ids see
// an empty session that is not kept.
func (s *Store) View(id string, fn func(*docmerge.Session) error) error {
	e := s.lookup(id, false)
	if e == nil {
		return fn(docmerge.NewSession(s.opts))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Sweep evicts idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Drop forgets the session of id.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
