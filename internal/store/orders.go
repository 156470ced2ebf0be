package store

import (
	"context"
	"errors"
	"sync"

	"github.com/quickbite/merchant/internal/enum"
	"github.com/quickbite/merchant/internal/model"
)

// Errors returned by the stores.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyDecided  = errors.New("order already decided")
	ErrInvalidDecision = errors.New("invalid decision status")
	ErrDuplicateOrder  = errors.New("duplicate order id")
)

// OrderStore is an in-memory order collection. Orders keep their insertion
// order; a decided order stays in the collection forever, it is only ever
// excluded from the pending projection.
type OrderStore struct {
	mu      sync.RWMutex
	orders  []*model.Order
	index   map[string]*model.Order
	reasons map[string]string
}

// NewOrderStore creates an OrderStore holding the given seed orders.
func NewOrderStore(seed ...model.Order) *OrderStore {
	s := &OrderStore{
		index:   make(map[string]*model.Order),
		reasons: make(map[string]string),
	}
	for _, o := range seed {
		c := o.Clone()
		s.orders = append(s.orders, &c)
		s.index[c.ID] = &c
	}
	return s
}

// Add appends a new order. Used by seeding and tests; decided orders are
// never removed, so duplicate IDs are a caller bug.
func (s *OrderStore) Add(_ context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.index[o.ID]; exists {
		return ErrDuplicateOrder
	}
	c := o.Clone()
	s.orders = append(s.orders, &c)
	s.index[c.ID] = &c
	return nil
}

// Pending returns the orders still awaiting a decision, in insertion order.
// The projection is recomputed on every call rather than maintained
// incrementally.
func (s *OrderStore) Pending(_ context.Context) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Order
	for _, o := range s.orders {
		if o.Status == enum.OrderStatusPending {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

// Get looks up a single order by ID.
func (s *OrderStore) Get(_ context.Context, id string) (model.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.index[id]
	if !ok {
		return model.Order{}, false, nil
	}
	return o.Clone(), true, nil
}

// Decide moves a pending order to accepted or rejected. The transition is
// one-way: deciding a non-pending order returns ErrAlreadyDecided. A reject
// reason is recorded on the store, not on the order itself.
func (s *OrderStore) Decide(_ context.Context, id, status, reason string) error {
	if status != enum.OrderStatusAccepted && status != enum.OrderStatusRejected {
		return ErrInvalidDecision
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.index[id]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != enum.OrderStatusPending {
		return ErrAlreadyDecided
	}
	o.Status = status
	if status == enum.OrderStatusRejected && reason != "" {
		s.reasons[id] = reason
	}
	return nil
}

// RejectReason returns the recorded reason for a rejected order, if any.
func (s *OrderStore) RejectReason(_ context.Context, id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reasons[id]
	return r, ok
}
