package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quickbite/merchant/internal/store"
)

func testRefresher(t *testing.T, interval, displayTick time.Duration) *Refresher {
	t.Helper()
	board := NewBoard(store.NewOrderStore(store.SeedOrders()...))
	r := NewRefresher(board, interval)
	r.displayTick = displayTick
	return r
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
		return Snapshot{}
	}
}

func TestRefresherPublishesPendingList(t *testing.T) {
	r := testRefresher(t, 20*time.Millisecond, time.Hour)
	ch := r.Subscribe()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer r.Stop()

	// The first snapshot comes from the immediate initial refresh.
	s := waitSnapshot(t, ch)
	if len(s.Orders) != 2 {
		t.Fatalf("snapshot orders: got %d, want 2", len(s.Orders))
	}
	if s.LastRefresh.IsZero() {
		t.Error("snapshot has zero last-refresh time")
	}

	// Subsequent ticks keep republishing.
	s = waitSnapshot(t, ch)
	if len(s.Orders) != 2 {
		t.Fatalf("second snapshot orders: got %d, want 2", len(s.Orders))
	}
}

func TestRefresherElapsedTick(t *testing.T) {
	// Display ticks fire much faster than refreshes here, so elapsed-only
	// snapshots land between refreshes.
	r := testRefresher(t, time.Hour, 10*time.Millisecond)
	ch := r.Subscribe()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer r.Stop()

	first := waitSnapshot(t, ch) // initial refresh
	s := waitSnapshot(t, ch)     // display tick
	if s.Elapsed <= 0 {
		t.Errorf("display snapshot elapsed: got %v, want > 0", s.Elapsed)
	}
	if !s.LastRefresh.Equal(first.LastRefresh) {
		t.Error("display tick changed the last-refresh timestamp")
	}
}

func TestRefresherDoubleStartRefused(t *testing.T) {
	r := testRefresher(t, 50*time.Millisecond, time.Hour)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer r.Stop()

	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start: got %v, want ErrAlreadyStarted", err)
	}
}

func TestRefresherStopEndsLoop(t *testing.T) {
	r := testRefresher(t, 10*time.Millisecond, time.Hour)
	ch := r.Subscribe()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitSnapshot(t, ch)
	r.Stop()

	// Drain anything in flight, then confirm silence.
	for {
		select {
		case <-ch:
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	select {
	case <-ch:
		t.Fatal("snapshot published after Stop")
	case <-time.After(50 * time.Millisecond):
	}

	// Stop is idempotent.
	r.Stop()
}

func TestRefresherStopsOnContextCancel(t *testing.T) {
	r := testRefresher(t, 10*time.Millisecond, time.Hour)
	ch := r.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	if err := r.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitSnapshot(t, ch)
	cancel()

	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not exit on context cancellation")
	}
}
