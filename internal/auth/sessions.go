package auth

import (
	"sync"
	"time"
)

// Session binds a token to a user until it expires.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Sessions is an in-memory session store. Like the rest of the system it
// holds no state across restarts; a restart just logs everyone out.
type Sessions struct {
	mu           sync.Mutex
	byToken      map[string]Session
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
	now          func() time.Time
}

// NewSessions creates a session store with the given time-to-live and
// starts a periodic sweep of expired entries.
func NewSessions(ttl time.Duration) *Sessions {
	s := &Sessions{
		byToken:     make(map[string]Session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
		now:         time.Now,
	}
	go s.startCleanup()
	return s
}

func (s *Sessions) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *Sessions) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for token, sess := range s.byToken {
		if now.After(sess.ExpiresAt) {
			delete(s.byToken, token)
		}
	}
}

// Create mints a new session for the user and returns its token.
func (s *Sessions) Create(userID int64) (Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.byToken[token] = sess
	s.mu.Unlock()
	return sess, nil
}

// Validate resolves a token to its session. Expired tokens are removed
// on the spot and reported as absent.
func (s *Sessions) Validate(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok {
		return Session{}, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.byToken, token)
		return Session{}, false
	}
	return sess, true
}

// Revoke removes a session. Revoking an unknown token is a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.byToken, token)
	s.mu.Unlock()
}

// Stop shuts down the cleanup goroutine.
func (s *Sessions) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}
