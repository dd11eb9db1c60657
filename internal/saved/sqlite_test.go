// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package saved

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

func sqliteConfig(path string) types.StoreConfig {
	return types.StoreConfig{
		Backend:      types.BackendSQLite,
		Namespace:    "test",
		SQLitePath:   path,
		PollInterval: 20 * time.Millisecond,
	}
}

func newSQLiteStore(t *testing.T, path string) *SQLite {
	t.Helper()
	s, err := NewSQLite(sqliteConfig(path), tickingClock())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return newSQLiteStore(t, filepath.Join(t.TempDir(), "saved.db"))
	})
}

func TestSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "saved.db")
	s := newSQLiteStore(t, path)
	assert.NoError(t, s.Upsert(context.Background(), "u1", record("a", "x")))
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saved.db")

	first, err := NewSQLite(sqliteConfig(path), nil)
	require.NoError(t, err)
	require.NoError(t, first.Upsert(ctx, "u1", record("a", "kept")))
	require.NoError(t, first.Close())

	second := newSQLiteStore(t, path)
	snap, err := second.snapshot(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "kept", snap.Records[0].Title)
	assert.Equal(t, types.SentimentPositive, snap.Records[0].Sentiment)
}

func TestSQLiteNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saved.db")

	a := newSQLiteStore(t, path)
	cfg := sqliteConfig(path)
	cfg.Namespace = "other"
	b, err := NewSQLite(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	require.NoError(t, a.Upsert(ctx, "u1", record("a", "x")))

	snap, err := b.snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
}

func TestSQLiteSeesWritesFromAnotherConnection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saved.db")

	reader := newSQLiteStore(t, path)
	writer := newSQLiteStore(t, path)

	sub, err := reader.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer sub.Close()
	waitFor(t, sub, hasIDs())

	require.NoError(t, writer.Upsert(ctx, "u1", record("a", "from another device")))
	waitFor(t, sub, hasIDs("a"))

	require.NoError(t, writer.Delete(ctx, "u1", "a"))
	waitFor(t, sub, hasIDs())
}
