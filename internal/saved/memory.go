// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package saved

import (
	"context"
	"sync"
	"time"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records map[string]map[string]types.SavedRecord // user -> article id -> record
	closed  bool
	now     func() time.Time
	hub     *hub
}

// NewMemory returns an empty Memory store. A nil now uses time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		records: make(map[string]map[string]types.SavedRecord),
		now:     now,
		hub:     newHub(),
	}
}

func (m *Memory) Upsert(ctx context.Context, userID string, rec types.SavedRecord) error {
	if err := validate(userID, rec.ID); err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	rec.SavedAt = m.now().UTC()
	if m.records[userID] == nil {
		m.records[userID] = make(map[string]types.SavedRecord)
	}
	m.records[userID][rec.ID] = rec
	m.mu.Unlock()

	m.hub.notify(userID)
	return nil
}

func (m *Memory) Delete(ctx context.Context, userID, articleID string) error {
	if err := validate(userID, articleID); err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	delete(m.records[userID], articleID)
	m.mu.Unlock()

	m.hub.notify(userID)
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	return m.hub.subscribe(ctx, userID, 0, func(context.Context) (Snapshot, error) {
		return m.snapshot(userID)
	}), nil
}

func (m *Memory) snapshot(userID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Snapshot{}, ErrClosed
	}

	recs := make([]types.SavedRecord, 0, len(m.records[userID]))
	for _, r := range m.records[userID] {
		recs = append(recs, r)
	}
	sortRecords(recs)
	return Snapshot{Records: recs}, nil
}

// Close marks the store closed. Open subscriptions receive ErrClosed and
// end.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.hub.closeAll()
	return nil
}
