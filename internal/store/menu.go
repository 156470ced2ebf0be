package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/quickbite/merchant/internal/model"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuStore is an in-memory menu collection keeping insertion order.
type MenuStore struct {
	mu    sync.RWMutex
	items []*model.MenuItem
	index map[uuid.UUID]*model.MenuItem
}

// NewMenuStore creates a MenuStore holding the given seed items.
func NewMenuStore(seed ...model.MenuItem) *MenuStore {
	s := &MenuStore{index: make(map[uuid.UUID]*model.MenuItem)}
	for _, item := range seed {
		c := item
		s.items = append(s.items, &c)
		s.index[c.ID] = &c
	}
	return s
}

// List returns all menu items in insertion order.
func (s *MenuStore) List(_ context.Context) ([]model.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, nil
}

// Create adds a new item and assigns it a fresh ID. New items start active.
func (s *MenuStore) Create(_ context.Context, item model.MenuItem) (model.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = uuid.New()
	item.IsActive = true
	s.items = append(s.items, &item)
	s.index[item.ID] = &item
	return item, nil
}

// Update overwrites the mutable fields of an existing item.
func (s *MenuStore) Update(_ context.Context, updated model.MenuItem) (model.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.index[updated.ID]
	if !ok {
		return model.MenuItem{}, ErrMenuItemNotFound
	}
	item.Name = updated.Name
	item.Price = updated.Price
	item.Stock = updated.Stock
	item.IsActive = updated.IsActive
	if updated.Category != "" {
		item.Category = updated.Category
	}
	if updated.Image != "" {
		item.Image = updated.Image
	}
	return *item, nil
}

// Delete removes an item permanently.
func (s *MenuStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[id]; !ok {
		return ErrMenuItemNotFound
	}
	delete(s.index, id)
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return nil
}
