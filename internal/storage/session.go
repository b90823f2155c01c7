package storage

import (
	"context"
	"sync"

	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

// SessionSnapshot is the durable slice of session state. Loading flags are
// volatile and never persisted.
type SessionSnapshot struct {
	User            *types.User `json:"user"`
	IsAuthenticated bool        `json:"is_authenticated"`
	AccessToken     string      `json:"access_token"`
	RefreshToken    string      `json:"refresh_token"`
}

// SessionStore holds the authenticated identity and token pair. All reads and
// writes are atomic with respect to each other; IsAuthenticated is true only
// while a user and an access token are both present.
type SessionStore struct {
	mu     sync.RWMutex
	medium Medium
	log    *logger.Logger

	state   SessionSnapshot
	loading bool
}

func NewSessionStore(ctx context.Context, medium Medium, log *logger.Logger) (*SessionStore, error) {
	s := &SessionStore{medium: medium, log: log}
	found, err := load(ctx, medium, log, sessionKey, &s.state)
	if found {
		// Re-derive the flag rather than trusting the stored one.
		s.state.IsAuthenticated = s.state.User != nil && s.state.AccessToken != ""
	}
	return s, err
}

func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if s.state.User != nil {
		user := *s.state.User
		out.User = &user
	}
	return out
}

func (s *SessionStore) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	user := *s.state.User
	return &user
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *SessionStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

func (s *SessionStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

// SetSession installs a freshly authenticated identity and token pair in one
// atomic step.
func (s *SessionStore) SetSession(ctx context.Context, user types.User, accessToken, refreshToken string) {
	s.mu.Lock()
	s.state = SessionSnapshot{
		User:            &user,
		IsAuthenticated: true,
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
	}
	snapshot := s.state
	s.mu.Unlock()
	persist(ctx, s.medium, s.log, sessionKey, snapshot)
}

// SetTokens swaps the token pair after a refresh. An empty refreshToken keeps
// the current one, for backends that do not rotate refresh tokens.
func (s *SessionStore) SetTokens(ctx context.Context, accessToken, refreshToken string) {
	s.mu.Lock()
	s.state.AccessToken = accessToken
	if refreshToken != "" {
		s.state.RefreshToken = refreshToken
	}
	s.state.IsAuthenticated = s.state.User != nil && s.state.AccessToken != ""
	snapshot := s.state
	s.mu.Unlock()
	persist(ctx, s.medium, s.log, sessionKey, snapshot)
}

// UpdateUser applies a partial profile change to the cached identity. A nil
// cached user is left untouched.
func (s *SessionStore) UpdateUser(ctx context.Context, apply func(*types.User)) {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return
	}
	apply(s.state.User)
	snapshot := s.state
	s.mu.Unlock()
	persist(ctx, s.medium, s.log, sessionKey, snapshot)
}

// Clear drops the identity and both tokens in one atomic step. There is no
// intermediate state where a token survives without its user.
func (s *SessionStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.state = SessionSnapshot{}
	s.mu.Unlock()
	remove(ctx, s.medium, s.log, sessionKey)
}

func (s *SessionStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *SessionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
