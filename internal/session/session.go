// Package session owns the bearer-token lifecycle for a back-office client.
// A Session is an explicit object built by the composition root and injected
// into whatever issues authenticated calls; there is no ambient global token.
package session

import (
	"fmt"
	"sync"
)

// Store persists the single token value across process restarts.
type Store interface {
	Read() (string, error)
	Write(token string) error
	Clear() error
}

// Session holds the one live token for a client context.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
}

// New creates a Session backed by store, loading any previously persisted
// token.
func New(store Store) (*Session, error) {
	token, err := store.Read()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	return &Session{store: store, token: token}, nil
}

// SetToken stores a new token value, replacing any previous one.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Write(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.token = token
	return nil
}

// Token returns the current token, or the empty string when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RemoveToken drops the token from memory and persistent storage.
func (s *Session) RemoveToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.token = ""
	return nil
}

// IsAuthenticated reports whether a non-empty token is present. It says
// nothing about validity or expiry; only the server can decide that.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
