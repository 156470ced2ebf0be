package client

import (
	"context"
	"fmt"

	"github.com/quickbite/merchant/internal/enum"
	"github.com/quickbite/merchant/internal/model"
)

// Source adapts a Client to the workflow.OrderSource interface so a board
// can run against the live API instead of a local store.
type Source struct {
	c *Client
}

// NewSource creates a Source over c.
func NewSource(c *Client) *Source { return &Source{c: c} }

// Pending fetches the current pending list.
func (s *Source) Pending(ctx context.Context) ([]model.Order, error) {
	return s.c.PendingOrders(ctx)
}

// Get resolves an order by scanning the pending list; the API exposes no
// single-order lookup.
func (s *Source) Get(ctx context.Context, id string) (model.Order, bool, error) {
	orders, err := s.c.PendingOrders(ctx)
	if err != nil {
		return model.Order{}, false, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

// Decide forwards the decision to the accept or reject endpoint.
func (s *Source) Decide(ctx context.Context, id, status, reason string) error {
	switch status {
	case enum.OrderStatusAccepted:
		_, err := s.c.AcceptOrder(ctx, id)
		return err
	case enum.OrderStatusRejected:
		return s.c.RejectOrder(ctx, id, reason)
	}
	return fmt.Errorf("unsupported decision status %q", status)
}
