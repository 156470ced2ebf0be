package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/quickbite/merchant/internal/enum"
	"github.com/quickbite/merchant/internal/model"
	"github.com/quickbite/merchant/internal/store"
	"github.com/shopspring/decimal"
)

func TestOrderStorePendingProjection(t *testing.T) {
	ctx := context.Background()
	s := store.NewOrderStore(store.SeedOrders()...)

	pending, err := s.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending: got %d orders, want 2", len(pending))
	}
	if pending[0].ID != "20231027001" || pending[1].ID != "20231027002" {
		t.Errorf("pending not in insertion order: %q, %q", pending[0].ID, pending[1].ID)
	}

	if err := s.Decide(ctx, "20231027001", enum.OrderStatusAccepted, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}

	pending, err = s.Pending(ctx)
	if err != nil {
		t.Fatalf("pending after decide: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "20231027002" {
		t.Fatalf("pending after accept: got %v", pending)
	}
}

func TestOrderStoreDecideIsTerminal(t *testing.T) {
	ctx := context.Background()
	s := store.NewOrderStore(store.SeedOrders()...)

	if err := s.Decide(ctx, "20231027001", enum.OrderStatusRejected, "out of stock"); err != nil {
		t.Fatalf("decide: %v", err)
	}
	err := s.Decide(ctx, "20231027001", enum.OrderStatusAccepted, "")
	if !errors.Is(err, store.ErrAlreadyDecided) {
		t.Fatalf("second decide: got %v, want ErrAlreadyDecided", err)
	}

	o, ok, err := s.Get(ctx, "20231027001")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if o.Status != enum.OrderStatusRejected {
		t.Errorf("status: got %q, want rejected", o.Status)
	}
}

func TestOrderStoreDecideErrors(t *testing.T) {
	ctx := context.Background()
	s := store.NewOrderStore(store.SeedOrders()...)

	if err := s.Decide(ctx, "nope", enum.OrderStatusAccepted, ""); !errors.Is(err, store.ErrOrderNotFound) {
		t.Errorf("unknown order: got %v, want ErrOrderNotFound", err)
	}
	if err := s.Decide(ctx, "20231027001", "cancelled", ""); !errors.Is(err, store.ErrInvalidDecision) {
		t.Errorf("invalid status: got %v, want ErrInvalidDecision", err)
	}
}

func TestOrderStoreRejectReasonNotOnOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewOrderStore(store.SeedOrders()...)

	if err := s.Decide(ctx, "20231027002", enum.OrderStatusRejected, "out of stock"); err != nil {
		t.Fatalf("decide: %v", err)
	}

	reason, ok := s.RejectReason(ctx, "20231027002")
	if !ok || reason != "out of stock" {
		t.Errorf("reject reason: got %q ok=%v", reason, ok)
	}

	// The order record itself never carries the reason.
	o, _, err := s.Get(ctx, "20231027002")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Note != "Please pack the dressing separately, thanks." {
		t.Errorf("note was mutated: %q", o.Note)
	}
}

func TestOrderStoreCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := store.NewOrderStore(store.SeedOrders()...)

	pending, err := s.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	pending[0].Status = "tampered"
	pending[0].Items[0].Name = "tampered"

	o, _, err := s.Get(ctx, pending[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != enum.OrderStatusPending || o.Items[0].Name == "tampered" {
		t.Error("mutating a returned order leaked into the store")
	}
}

func TestMenuStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := store.NewMenuStore()

	created, err := s.Create(ctx, model.MenuItem{
		Name:     "Braised Pork Rice",
		Price:    decimal.NewFromInt(85),
		Stock:    40,
		Category: "Rice",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("create did not assign an ID")
	}
	if !created.IsActive {
		t.Error("new items should start active")
	}

	created.Name = "Braised Pork Rice (large)"
	created.Stock = 25
	created.IsActive = false
	if _, err := s.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Braised Pork Rice (large)" || items[0].IsActive {
		t.Fatalf("after update: %+v", items)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ = s.List(ctx)
	if len(items) != 0 {
		t.Fatalf("after delete: %d items left", len(items))
	}

	if err := s.Delete(ctx, created.ID); !errors.Is(err, store.ErrMenuItemNotFound) {
		t.Errorf("double delete: got %v, want ErrMenuItemNotFound", err)
	}
}

func TestUserStoreUniqueness(t *testing.T) {
	ctx := context.Background()
	s := store.NewUserStore()

	u, err := s.Create(ctx, model.User{Username: "bento-bar", Email: "owner@bento.tw"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Create(ctx, model.User{Username: "bento-bar", Email: "other@bento.tw"}); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("duplicate username: got %v", err)
	}
	if _, err := s.Create(ctx, model.User{Username: "other", Email: "owner@bento.tw"}); !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("duplicate email: got %v", err)
	}

	renamed, err := s.UpdateUsername(ctx, u.ID, "bento-palace")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Username != "bento-palace" {
		t.Errorf("rename: got %q", renamed.Username)
	}
	if _, err := s.GetByUsername(ctx, "bento-bar"); !errors.Is(err, store.ErrUserNotFound) {
		t.Error("old username still resolves after rename")
	}
}

func TestCaptchaSingleUse(t *testing.T) {
	ctx := context.Background()
	s := store.NewCaptchaStore()

	token := s.Issue(ctx, "4821")
	if !s.Redeem(ctx, token, "4821") {
		t.Fatal("correct answer rejected")
	}
	if s.Redeem(ctx, token, "4821") {
		t.Fatal("challenge redeemable twice")
	}

	token = s.Issue(ctx, "4821")
	if s.Redeem(ctx, token, "0000") {
		t.Fatal("wrong answer accepted")
	}
	// A wrong attempt still consumes the challenge.
	if s.Redeem(ctx, token, "4821") {
		t.Fatal("challenge survived a failed attempt")
	}
}
