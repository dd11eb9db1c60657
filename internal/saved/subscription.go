// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package saved

import (
	"context"
	"sync"
	"time"
)

// Subscription is a live query over one user's saved records.
type Subscription struct {
	mu      sync.Mutex
	updates chan Update
	done    chan struct{}
	closed  bool
	stop    func()
}

func newSubscription(stop func()) *Subscription {
	return &Subscription{
		updates: make(chan Update, 1),
		done:    make(chan struct{}),
		stop:    stop,
	}
}

// Updates delivers snapshots and read errors. It is closed by Close.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Done is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close tears the subscription down. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.end(nil)
	return nil
}

// end closes s. A non-nil err replaces any undelivered update and is the
// last value read from Updates.
func (s *Subscription) end(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if err != nil {
		select {
		case <-s.updates:
		default:
		}
		s.updates <- Update{Err: err}
	}
	s.closed = true
	close(s.done)
	close(s.updates)
	s.mu.Unlock()

	if s.stop != nil {
		s.stop()
	}
}

// push replaces any undelivered update with u.
func (s *Subscription) push(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.updates <- u:
	default:
		select {
		case <-s.updates:
		default:
		}
		s.updates <- u
	}
}

type loadFunc func(ctx context.Context) (Snapshot, error)

// watch delivers the current snapshot, then re-reads on every kick and
// every interval tick (interval 0 disables polling), pushing only snapshots
// that differ from the last one delivered. It returns when ctx ends.
func watch(ctx context.Context, sub *Subscription, kick <-chan struct{}, interval time.Duration, load loadFunc) {
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	var last *Snapshot
	deliver := func() {
		snap, err := load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sub.push(Update{Err: err})
			return
		}
		if last != nil && last.Equal(snap) {
			return
		}
		last = &snap
		sub.push(Update{Snapshot: snap})
	}

	deliver()
	for {
		select {
		case <-ctx.Done():
			return
		case <-kick:
			deliver()
		case <-tick:
			deliver()
		}
	}
}

// hub wakes the watchers of one user after an in-process write and tracks
// every open subscription of a store so Close can end them.
type hub struct {
	mu    sync.Mutex
	kicks map[string]map[chan struct{}]struct{}
	subs  map[*Subscription]struct{}
}

func newHub() *hub {
	return &hub{
		kicks: make(map[string]map[chan struct{}]struct{}),
		subs:  make(map[*Subscription]struct{}),
	}
}

func (h *hub) track(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = struct{}{}
}

func (h *hub) untrack(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}

// closeAll ends every tracked subscription with a final ErrClosed update.
func (h *hub) closeAll() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.end(ErrClosed)
	}
}

func (h *hub) add(userID string) chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan struct{}, 1)
	if h.kicks[userID] == nil {
		h.kicks[userID] = make(map[chan struct{}]struct{})
	}
	h.kicks[userID][ch] = struct{}{}
	return ch
}

func (h *hub) remove(userID string, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.kicks[userID], ch)
	if len(h.kicks[userID]) == 0 {
		delete(h.kicks, userID)
	}
}

func (h *hub) notify(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.kicks[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// subscribe wires a watcher for userID to h and returns its subscription.
func (h *hub) subscribe(ctx context.Context, userID string, interval time.Duration, load loadFunc) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	kick := h.add(userID)

	var (
		wg  sync.WaitGroup
		sub *Subscription
	)
	sub = newSubscription(func() {
		cancel()
		h.remove(userID, kick)
		h.untrack(sub)
		wg.Wait()
	})
	h.track(sub)

	wg.Add(1)
	go func() {
		defer wg.Done()
		watch(ctx, sub, kick, interval, load)
	}()
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.Done():
		}
	}()
	return sub
}
