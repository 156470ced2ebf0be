package workflow

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/quickbite/merchant/internal/model"
)

// ErrAlreadyStarted is returned by Start when the refresher is running.
// Starting twice would double-fire every tick, so it is refused outright.
var ErrAlreadyStarted = errors.New("refresher already started")

// Snapshot is what subscribers receive: the pending list as of the last
// refresh, when that refresh happened, and how long ago that is.
type Snapshot struct {
	Orders      []model.Order
	LastRefresh time.Time
	Elapsed     time.Duration
}

// Refresher periodically re-derives the pending list and republishes it.
// One goroutine owns both periodic duties (the refresh itself and the
// elapsed-time display tick), so the last-refresh timestamp has a single
// writer by construction.
type Refresher struct {
	board       *Board
	interval    time.Duration
	displayTick time.Duration

	mu      sync.Mutex
	started bool
	subs    []chan Snapshot

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewRefresher creates a Refresher republishing the board's pending list
// every interval, with a 1s elapsed-display tick in between.
func NewRefresher(board *Board, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Refresher{
		board:       board,
		interval:    interval,
		displayTick: time.Second,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Subscribe registers a snapshot channel. Slow subscribers miss snapshots
// rather than blocking the refresh loop.
func (r *Refresher) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 8)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()
	return ch
}

// Start launches the refresh loop. A second call returns ErrAlreadyStarted.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.mu.Unlock()

	go r.run(ctx)
	return nil
}

// Stop ends the refresh loop and waits for it to exit. Safe to call more
// than once, and a no-op if Start was never called.
func (r *Refresher) Stop() {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()

	r.stopOnce.Do(func() { close(r.stop) })
	if started {
		<-r.done
	}
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	refresh := time.NewTicker(r.interval)
	defer refresh.Stop()
	display := time.NewTicker(r.displayTick)
	defer display.Stop()

	// Both values are confined to this goroutine; snapshots carry copies out.
	var (
		orders      []model.Order
		lastRefresh time.Time
	)

	doRefresh := func() {
		got, err := r.board.ListPending(ctx)
		if err != nil {
			log.Printf("ERROR: refresh pending orders: %v", err)
			return
		}
		orders = got
		lastRefresh = time.Now()
		r.publish(Snapshot{Orders: orders, LastRefresh: lastRefresh})
	}

	doRefresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-refresh.C:
			doRefresh()
		case now := <-display.C:
			if lastRefresh.IsZero() {
				continue
			}
			r.publish(Snapshot{Orders: orders, LastRefresh: lastRefresh, Elapsed: now.Sub(lastRefresh)})
		}
	}
}

func (r *Refresher) publish(s Snapshot) {
	r.mu.Lock()
	subs := make([]chan Snapshot, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- s:
		default:
		}
	}
}
