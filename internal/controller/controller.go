// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package controller issues save and remove operations against the saved
// store and reports their outcomes on a single status surface.
//
// Calls return immediately. Each store operation runs in its own goroutine,
// detached from the caller's cancellation, and walks the phases
// in-flight then succeeded or failed. Every transition overwrites the
// visible status; a later invocation never cancels an earlier one.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/sentiment-dashboard/internal/logging"
	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// Phase is where one invocation is in its lifecycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "in-flight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Terminal reports whether p is succeeded or failed.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Op names the kind of store operation.
type Op string

const (
	OpSave   Op = "save"
	OpRemove Op = "remove"
)

// Status is one transition of one invocation.
type Status struct {
	InvocationID string
	Op           Op
	ArticleID    string
	Phase        Phase
	Err          error
	At           time.Time
}

// Message renders s for a status line.
func (s Status) Message() string {
	switch s.Phase {
	case PhaseInFlight:
		if s.Op == OpSave {
			return fmt.Sprintf("saving %s...", s.ArticleID)
		}
		return fmt.Sprintf("removing %s...", s.ArticleID)
	case PhaseSucceeded:
		if s.Op == OpSave {
			return fmt.Sprintf("saved %s", s.ArticleID)
		}
		return fmt.Sprintf("removed %s", s.ArticleID)
	case PhaseFailed:
		return fmt.Sprintf("%s %s failed: %v", s.Op, s.ArticleID, s.Err)
	default:
		return ""
	}
}

// Writer is the part of the saved store the controller writes to.
type Writer interface {
	Upsert(ctx context.Context, userID string, rec types.SavedRecord) error
	Delete(ctx context.Context, userID, articleID string) error
}

// Options tunes a Controller. The zero value is usable.
type Options struct {
	// OpTimeout bounds each store call. Zero means no bound.
	OpTimeout time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Controller issues store writes for one identity at a time.
type Controller struct {
	store     Writer
	opTimeout time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	userID   string
	status   Status
	statuses chan Status

	wg sync.WaitGroup
}

// New returns a Controller writing to store on behalf of userID. Either may
// be empty; calls are then skipped until both are present.
func New(store Writer, userID string, opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		store:     store,
		opTimeout: opts.OpTimeout,
		logger:    logging.OrDiscard(opts.Logger),
		now:       now,
		userID:    userID,
		status:    Status{Phase: PhaseIdle},
		statuses:  make(chan Status, 1),
	}
}

// SetIdentity switches the user later calls write for. Calls already in
// flight keep the identity they were issued with.
func (c *Controller) SetIdentity(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

// Ready reports whether both a store and an identity are present.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store != nil && c.userID != ""
}

// Save upserts a record built from a. It returns nil when the controller is
// not ready.
func (c *Controller) Save(ctx context.Context, a types.ScoredArticle) *Pending {
	rec := types.NewSavedRecord(a)
	return c.issue(ctx, OpSave, a.ID, func(ctx context.Context, userID string) error {
		return c.store.Upsert(ctx, userID, rec)
	})
}

// Remove deletes the record for articleID. It returns nil when the
// controller is not ready.
func (c *Controller) Remove(ctx context.Context, articleID string) *Pending {
	return c.issue(ctx, OpRemove, articleID, func(ctx context.Context, userID string) error {
		return c.store.Delete(ctx, userID, articleID)
	})
}

func (c *Controller) issue(ctx context.Context, op Op, articleID string, call func(context.Context, string) error) *Pending {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()

	if c.store == nil || userID == "" {
		c.logger.DebugContext(ctx, "store not ready, skipping", "op", op, "article", articleID)
		return nil
	}

	p := &Pending{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
	c.report(Status{InvocationID: p.id, Op: op, ArticleID: articleID, Phase: PhaseInFlight})

	opCtx := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		var cancel context.CancelFunc = func() {}
		if c.opTimeout > 0 {
			opCtx, cancel = context.WithTimeout(opCtx, c.opTimeout)
		}
		err := call(opCtx, userID)
		cancel()

		final := Status{InvocationID: p.id, Op: op, ArticleID: articleID, Phase: PhaseSucceeded}
		if err != nil {
			final.Phase = PhaseFailed
			final.Err = fmt.Errorf("%s article %s: %w", op, articleID, err)
			c.logger.WarnContext(opCtx, "store operation failed", "op", op, "article", articleID, "error", err)
		} else {
			c.logger.InfoContext(opCtx, "store operation succeeded", "op", op, "article", articleID)
		}
		p.status = c.report(final)
		close(p.done)
	}()
	return p
}

// report stamps s, makes it the visible status and offers it on Statuses.
func (c *Controller) report(s Status) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.At = c.now()
	c.status = s

	select {
	case c.statuses <- s:
	default:
		select {
		case <-c.statuses:
		default:
		}
		c.statuses <- s
	}
	return s
}

// Status returns the most recently written transition.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Statuses delivers transitions latest-wins: a slow reader sees only the
// newest one.
func (c *Controller) Statuses() <-chan Status {
	return c.statuses
}

// Wait blocks until every issued call has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Pending is the handle of one issued call. A nil Pending stands for a
// skipped call.
type Pending struct {
	id     string
	done   chan struct{}
	status Status
}

// ID returns the invocation id, or "" for a skipped call.
func (p *Pending) ID() string {
	if p == nil {
		return ""
	}
	return p.id
}

// Done is closed when the call settles. For a skipped call it is already
// closed.
func (p *Pending) Done() <-chan struct{} {
	if p == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

// Wait blocks until the call settles and returns its terminal status. A
// skipped call reports PhaseIdle.
func (p *Pending) Wait() Status {
	if p == nil {
		return Status{Phase: PhaseIdle}
	}
	<-p.done
	return p.status
}

// Err waits for the call and returns its failure, if any.
func (p *Pending) Err() error {
	return p.Wait().Err
}
