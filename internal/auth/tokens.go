package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"grimm.is/ifctl/internal/clock"
)

// Verdict is the result of verifying a bearer token. The distinction exists
// for logs and metrics; callers must reject anything but VerdictValid with a
// uniform authentication error.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictExpired
	VerdictValid
)

// String returns the verdict name for logging.
func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ErrCooldown is returned when a login succeeds but a session was created
// too recently.
var ErrCooldown = errors.New("session creation is on cooldown")

// Session is an issued bearer token with its validity window. Sessions live
// only in process memory and die with the process.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TokenStore issues and verifies bearer tokens.
type TokenStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	ttl         time.Duration
	cooldown    time.Duration
	lastCreated time.Time
	clk         clock.Clock
}

// NewTokenStore creates a token store. ttl bounds token validity; cooldown
// throttles how often new sessions may be created (0 disables it).
func NewTokenStore(ttl, cooldown time.Duration, clk clock.Clock) *TokenStore {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	return &TokenStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		cooldown: cooldown,
		clk:      clk,
	}
}

// Issue creates a new session. Must only be called after the credential has
// been validated.
func (s *TokenStore) Issue() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	if s.cooldown > 0 && !s.lastCreated.IsZero() && now.Before(s.lastCreated.Add(s.cooldown)) {
		return nil, ErrCooldown
	}

	sess := &Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	s.lastCreated = now

	return sess, nil
}

// Verify checks a presented token.
func (s *TokenStore) Verify(token string) Verdict {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return VerdictUnknown
	}
	if s.clk.Now().After(sess.ExpiresAt) {
		return VerdictExpired
	}
	return VerdictValid
}

// Revoke discards a session, reporting whether it existed.
func (s *TokenStore) Revoke(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok
}

// Sweep discards expired sessions and returns how many were removed.
func (s *TokenStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until stop is closed.
func (s *TokenStore) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

// Clear discards every session. Used on shutdown.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*Session)
}

// Active returns the number of live sessions.
func (s *TokenStore) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
