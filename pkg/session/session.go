// Package session keeps per-browser state of the web app in memory: the signed-in user, their
// storage token, the pending OAuth state and the last scan.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"blobaudit.dev/pkg/auth"
	"blobaudit.dev/pkg/datafeed"
)

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = 2 * time.Hour

// Session is the state of one browser. Handlers receive a copy and persist changes with Save.
type Session struct {
	ID         string
	User       *auth.User
	Token      *auth.UserToken
	OAuthState string
	Scan       *datafeed.Result
	ScannedAt  time.Time

	expires time.Time
}

func (s *Session) Authenticated() bool {
	return s.User != nil
}

// Store is an in-memory session store safe for concurrent requests.
type Store struct {
	sync.RWMutex
	items map[string]Session
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		items: make(map[string]Session),
		ttl:   ttl,
		now:   time.Now,
	}
}

// New creates and stores an empty session with a random id.
func (s *Store) New() *Session {
	sess := &Session{ID: uuid.NewString()}
	s.Save(sess)

	return sess
}

// Get returns a copy of the session. Expired sessions are removed and reported missing.
func (s *Store) Get(id string) (*Session, bool) {
	s.RLock()
	sess, found := s.items[id]
	s.RUnlock()

	if !found {
		return nil, false
	}

	if s.now().After(sess.expires) {
		s.Delete(id)
		return nil, false
	}

	return &sess, true
}

// Save stores sess and extends its lifetime by the store TTL.
func (s *Store) Save(sess *Session) {
	s.Lock()
	defer s.Unlock()

	sess.expires = s.now().Add(s.ttl)
	s.items[sess.ID] = *sess
}

func (s *Store) Delete(id string) {
	s.Lock()
	defer s.Unlock()

	delete(s.items, id)
}

// Sweep drops every expired session and returns how many were dropped.
func (s *Store) Sweep() int {
	s.Lock()
	defer s.Unlock()

	n, now := 0, s.now()

	for id := range s.items {
		if now.After(s.items[id].expires) {
			delete(s.items, id)
			n++
		}
	}

	return n
}

func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.items)
}

// Expiry reports when the session with id expires.
func (s *Store) Expiry(id string) (time.Time, bool) {
	s.RLock()
	defer s.RUnlock()

	sess, found := s.items[id]

	return sess.expires, found
}
