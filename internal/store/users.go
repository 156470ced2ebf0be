package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/quickbite/merchant/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// UserStore is an in-memory merchant account collection.
type UserStore struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*model.User
	byUsername map[string]*model.User
	byEmail    map[string]*model.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[uuid.UUID]*model.User),
		byUsername: make(map[string]*model.User),
		byEmail:    make(map[string]*model.User),
	}
}

// Create registers a new user. Username and email must be unique.
func (s *UserStore) Create(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[u.Username]; taken {
		return model.User{}, ErrUsernameTaken
	}
	if _, taken := s.byEmail[u.Email]; taken {
		return model.User{}, ErrEmailTaken
	}
	u.ID = uuid.New()
	s.byID[u.ID] = &u
	s.byUsername[u.Username] = &u
	s.byEmail[u.Email] = &u
	return u, nil
}

// GetByUsername looks up a user by username.
func (s *UserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byUsername[username]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return *u, nil
}

// GetByID looks up a user by ID.
func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return *u, nil
}

// UpdateUsername renames a user, enforcing uniqueness.
func (s *UserStore) UpdateUsername(_ context.Context, id uuid.UUID, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	if other, taken := s.byUsername[username]; taken && other.ID != id {
		return model.User{}, ErrUsernameTaken
	}
	delete(s.byUsername, u.Username)
	u.Username = username
	s.byUsername[username] = u
	return *u, nil
}

// UpdatePassword replaces a user's password hash.
func (s *UserStore) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.HashedPassword = hashed
	return nil
}
