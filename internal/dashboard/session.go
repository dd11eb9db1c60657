// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dashboard owns one user's view of the headline catalog. A Session
// holds the identity scope and its saved-state subscription, keeps the last
// known saved set, and re-projects the catalog whenever a snapshot arrives.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pdiddy/sentiment-dashboard/internal/catalog"
	"github.com/pdiddy/sentiment-dashboard/internal/controller"
	"github.com/pdiddy/sentiment-dashboard/internal/logging"
	"github.com/pdiddy/sentiment-dashboard/internal/saved"
	"github.com/pdiddy/sentiment-dashboard/internal/view"
	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

var (
	// ErrUnknownArticle is returned when an article id is not in the catalog.
	ErrUnknownArticle = errors.New("unknown article")

	// ErrSubscriptionEnded is reported when the saved-state live query stops
	// before the identity scope does, for example because the store closed.
	ErrSubscriptionEnded = errors.New("saved-state subscription ended")
)

// Options configures a Session.
type Options struct {
	// OpTimeout bounds each save or remove call. Zero means no bound.
	OpTimeout time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Session is safe for concurrent use.
type Session struct {
	catalog *catalog.Catalog
	store   saved.Store
	ctrl    *controller.Controller
	logger  *slog.Logger
	now     func() time.Time

	mu         sync.RWMutex
	userID     string
	generation uint64
	sub        *saved.Subscription
	loaded     chan struct{}
	isLoaded   bool
	records    []types.SavedRecord
	savedIDs   types.SavedSet
	subErr     error
	annotated  []types.AnnotatedArticle

	changes chan struct{}
	wg      sync.WaitGroup
}

// New returns a Session over cat with no identity. store may be nil, in
// which case save and remove are skipped and nothing is ever marked saved.
func New(cat *catalog.Catalog, store saved.Store, opts Options) *Session {
	logger := logging.OrDiscard(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		catalog: cat,
		store:   store,
		ctrl: controller.New(store, "", controller.Options{
			OpTimeout: opts.OpTimeout,
			Logger:    logger,
			Now:       now,
		}),
		logger:  logger,
		now:     now,
		loaded:  make(chan struct{}),
		changes: make(chan struct{}, 1),
	}
	s.annotated = view.Project(cat.Articles(), nil)
	return s
}

// SetIdentity ends the current identity scope and starts a new one for
// userID. The saved set is cleared until the first snapshot for the new
// identity arrives; snapshots still in transit for the old identity are
// dropped. An empty userID leaves the session without an identity.
//
// ctx scopes the subscribe call only. The live query lasts until the next
// SetIdentity or Close.
func (s *Session) SetIdentity(ctx context.Context, userID string) error {
	s.mu.Lock()
	old := s.sub
	s.sub = nil
	s.generation++
	gen := s.generation
	s.userID = userID
	s.loaded = make(chan struct{})
	s.isLoaded = false
	s.records = nil
	s.savedIDs = nil
	s.subErr = nil
	s.annotated = view.Project(s.catalog.Articles(), nil)
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	s.ctrl.SetIdentity(userID)
	s.notify()

	if userID == "" || s.store == nil {
		s.logger.DebugContext(ctx, "no identity or store, saved state disabled")
		return nil
	}

	sub, err := s.store.Subscribe(context.WithoutCancel(ctx), userID)
	if err != nil {
		err = fmt.Errorf("subscribing to saved articles: %w", err)
		s.logger.ErrorContext(ctx, "saved-state subscription failed", "user", userID, "error", err)
		s.mu.Lock()
		if s.generation == gen {
			s.subErr = err
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.generation != gen {
		// Superseded while subscribing.
		s.mu.Unlock()
		sub.Close()
		return nil
	}
	s.sub = sub
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for u := range sub.Updates() {
			s.apply(gen, u)
		}
		s.ended(gen)
	}()
	return nil
}

// ended handles a subscription that stopped delivering. If it still belongs
// to the current identity scope the last known set stays visible and the
// loss is reported.
func (s *Session) ended(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}

	err := ErrSubscriptionEnded
	if s.subErr != nil {
		err = fmt.Errorf("%w: %w", ErrSubscriptionEnded, s.subErr)
	}
	s.subErr = err
	s.sub = nil
	userID := s.userID
	s.markLoaded()
	s.mu.Unlock()

	s.logger.Error("saved-state subscription ended, keeping last known set",
		"user", userID, "error", err)
	s.notify()
}

// apply installs one subscription delivery if it belongs to the current
// identity scope.
func (s *Session) apply(gen uint64, u saved.Update) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("dropping snapshot for superseded identity")
		return
	}

	if u.Err != nil {
		s.subErr = u.Err
		userID := s.userID
		s.markLoaded()
		s.mu.Unlock()
		s.logger.Error("saved-state subscription error, keeping last known set",
			"user", userID, "error", u.Err)
		s.notify()
		return
	}

	s.records = u.Snapshot.Records
	s.savedIDs = u.Snapshot.IDs()
	s.subErr = nil
	s.annotated = view.Project(s.catalog.Articles(), s.savedIDs)
	s.markLoaded()
	count := len(s.records)
	s.mu.Unlock()

	s.logger.Debug("saved-state snapshot applied", "records", count)
	s.notify()
}

// markLoaded must be called with s.mu held.
func (s *Session) markLoaded() {
	if !s.isLoaded {
		s.isLoaded = true
		close(s.loaded)
	}
}

func (s *Session) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Changes signals after every identity switch, snapshot, or subscription
// error. Signals coalesce.
func (s *Session) Changes() <-chan struct{} {
	return s.changes
}

// WaitLoaded blocks until the current identity's first snapshot or
// subscription error arrives, returning that error. Without an identity it
// returns at once.
func (s *Session) WaitLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	active := s.sub != nil
	err := s.subErr
	s.mu.RUnlock()

	if !active {
		return err
	}

	select {
	case <-loaded:
		return s.SubscriptionErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UserID returns the current identity.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Annotated returns the full catalog flagged with the last known saved set.
// The slice is shared; callers must not modify it.
func (s *Session) Annotated() []types.AnnotatedArticle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.annotated
}

// Query narrows the annotated list. sentimentFilter accepts "all", "",
// positive, negative, or neutral.
func (s *Session) Query(sentimentFilter, term string) ([]types.AnnotatedArticle, error) {
	f, err := view.ParseSentimentFilter(sentimentFilter)
	if err != nil {
		return nil, err
	}
	return view.Filter(s.Annotated(), f, term), nil
}

// Trend aggregates the whole annotated list, ignoring any query.
func (s *Session) Trend() []types.TrendPoint {
	return view.Aggregate(s.Annotated())
}

// SavedRecords returns the last known saved records, newest first.
func (s *Session) SavedRecords() []types.SavedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.SavedRecord(nil), s.records...)
}

// IsSaved reports whether id is in the last known saved set.
func (s *Session) IsSaved(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savedIDs.Contains(id)
}

// SubscriptionErr returns the most recent subscription error, cleared by
// the next good snapshot.
func (s *Session) SubscriptionErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subErr
}

// Save saves the catalog article id for the current identity. The returned
// Pending is nil when no identity or store is set.
func (s *Session) Save(ctx context.Context, id string) (*controller.Pending, error) {
	a, ok := s.catalog.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArticle, id)
	}
	return s.ctrl.Save(ctx, a), nil
}

// Remove removes id from the current identity's saved set. Ids outside the
// catalog are accepted so records left over from an older catalog can be
// removed.
func (s *Session) Remove(ctx context.Context, id string) (*controller.Pending, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrUnknownArticle)
	}
	return s.ctrl.Remove(ctx, id), nil
}

// Toggle saves id if it is not in the last known saved set, otherwise
// removes it.
func (s *Session) Toggle(ctx context.Context, id string) (*controller.Pending, error) {
	if s.IsSaved(id) {
		return s.Remove(ctx, id)
	}
	return s.Save(ctx, id)
}

// Status returns the latest save or remove transition.
func (s *Session) Status() controller.Status {
	return s.ctrl.Status()
}

// Statuses delivers save and remove transitions latest-wins.
func (s *Session) Statuses() <-chan controller.Status {
	return s.ctrl.Statuses()
}

// Wait blocks until every save and remove issued through s has settled.
func (s *Session) Wait() {
	s.ctrl.Wait()
}

// Close ends the identity scope. In-flight saves and removes are left to
// settle; call Wait to block on them. The store is not closed.
func (s *Session) Close() error {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.generation++
	s.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	s.wg.Wait()
	return nil
}
