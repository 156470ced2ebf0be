// Package workflow models the merchant's pending-order board: the one-way
// accept/reject state machine, the current selection, and the periodic
// refresh that re-derives the visible list from the source of truth.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quickbite/merchant/internal/enum"
	"github.com/quickbite/merchant/internal/model"
)

// ErrUnknownAction is returned for actions other than accept and reject.
var ErrUnknownAction = errors.New("unknown action")

// OrderSource is where the board reads orders from and writes decisions to.
// Satisfied by *store.OrderStore (local simulator) and *client.Source (live
// API).
type OrderSource interface {
	Pending(ctx context.Context) ([]model.Order, error)
	Get(ctx context.Context, id string) (model.Order, bool, error)
	Decide(ctx context.Context, id, status, reason string) error
}

// Decision is one entry of the board's decision log. The reject reason
// lives here and only here; the order record never carries it.
type Decision struct {
	OrderID string
	Action  string
	Reason  string
	At      time.Time
}

// Board tracks the currently viewed order and applies merchant decisions.
type Board struct {
	source OrderSource

	mu       sync.Mutex
	selected string
	log      []Decision
	now      func() time.Time
}

// NewBoard creates a Board over source with no selection.
func NewBoard(source OrderSource) *Board {
	return &Board{source: source, now: time.Now}
}

// ListPending returns the orders awaiting a decision, in insertion order.
// Pure projection, no side effect.
func (b *Board) ListPending(ctx context.Context) ([]model.Order, error) {
	return b.source.Pending(ctx)
}

// Select sets the currently viewed order. An unknown id is a no-op that
// leaves the previous selection in place; it does not clear it.
func (b *Board) Select(ctx context.Context, id string) error {
	_, ok, err := b.source.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	b.mu.Lock()
	b.selected = id
	b.mu.Unlock()
	return nil
}

// Selected returns the currently viewed order, if any.
func (b *Board) Selected(ctx context.Context) (model.Order, bool, error) {
	b.mu.Lock()
	id := b.selected
	b.mu.Unlock()
	if id == "" {
		return model.Order{}, false, nil
	}
	return b.source.Get(ctx, id)
}

// ClearSelection drops the current selection without acting on it.
func (b *Board) ClearSelection() {
	b.mu.Lock()
	b.selected = ""
	b.mu.Unlock()
}

// Act applies an accept or reject decision to the selected order, clears
// the selection, and returns the re-derived pending list. With no selection
// it is a no-op that still returns the current list. The reason is kept on
// the decision log, never on the order.
func (b *Board) Act(ctx context.Context, action, reason string) ([]model.Order, error) {
	var status string
	switch action {
	case enum.ActionAccept:
		status = enum.OrderStatusAccepted
	case enum.ActionReject:
		status = enum.OrderStatusRejected
	default:
		return nil, ErrUnknownAction
	}

	b.mu.Lock()
	id := b.selected
	b.mu.Unlock()
	if id == "" {
		return b.source.Pending(ctx)
	}

	if err := b.source.Decide(ctx, id, status, reason); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.selected = ""
	b.log = append(b.log, Decision{OrderID: id, Action: action, Reason: reason, At: b.now()})
	b.mu.Unlock()

	return b.source.Pending(ctx)
}

// Decisions returns a copy of the decision log, oldest first.
func (b *Board) Decisions() []Decision {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Decision, len(b.log))
	copy(out, b.log)
	return out
}
