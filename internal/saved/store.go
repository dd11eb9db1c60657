// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package saved persists the articles a user has chosen to keep and pushes
// full snapshots of that set to live subscribers.
//
// Records are keyed by (user, article id) under the logical path
// {namespace}/{userId}/saved_articles/{articleId}, so saving the same article
// twice overwrites rather than duplicates. Each backend assigns SavedAt
// itself. Snapshots are ordered by SavedAt descending, ties by id.
//
// Subscriptions deliver total replacements, never deltas. Delivery is
// latest-wins: a consumer that falls behind only sees the newest snapshot.
package saved

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("saved store is closed")

// Store is a per-user keyed record store with a live query.
type Store interface {
	// Upsert writes rec under (userID, rec.ID), replacing any existing
	// record. The store assigns rec.SavedAt.
	Upsert(ctx context.Context, userID string, rec types.SavedRecord) error

	// Delete removes (userID, articleID). A missing record is not an error.
	Delete(ctx context.Context, userID, articleID string) error

	// Subscribe starts a live query over userID's records. The current
	// snapshot is delivered first. The subscription ends when ctx is
	// cancelled or Close is called.
	Subscribe(ctx context.Context, userID string) (*Subscription, error)

	Close() error
}

// Key returns the logical path of one saved record.
func Key(namespace, userID, articleID string) string {
	return collectionKey(namespace, userID) + "/" + articleID
}

func collectionKey(namespace, userID string) string {
	return fmt.Sprintf("%s/%s/saved_articles", namespace, userID)
}

// Snapshot is the complete saved set of one user at one point in time.
type Snapshot struct {
	Records []types.SavedRecord
}

// IDs returns the saved article IDs.
func (s Snapshot) IDs() types.SavedSet {
	set := make(types.SavedSet, len(s.Records))
	for _, r := range s.Records {
		set[r.ID] = struct{}{}
	}
	return set
}

// Equal reports whether both snapshots hold the same records in the same
// order.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.Records) != len(o.Records) {
		return false
	}
	for i, r := range s.Records {
		q := o.Records[i]
		if r.ID != q.ID || r.Title != q.Title || r.Source != q.Source ||
			r.Date != q.Date || r.Sentiment != q.Sentiment ||
			r.SentimentScore != q.SentimentScore || !r.SavedAt.Equal(q.SavedAt) {
			return false
		}
	}
	return true
}

// Update is one delivery on a subscription: either a snapshot or the error
// that prevented reading one.
type Update struct {
	Snapshot Snapshot
	Err      error
}

func sortRecords(recs []types.SavedRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].SavedAt.Equal(recs[j].SavedAt) {
			return recs[i].SavedAt.After(recs[j].SavedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}

func validateUser(userID string) error {
	if userID == "" {
		return errors.New("user id is empty")
	}
	return nil
}

func validate(userID, articleID string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if articleID == "" {
		return errors.New("article id is empty")
	}
	return nil
}
