// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package saved

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

const (
	savedTable          = "saved_articles"
	defaultPollInterval = 2 * time.Second
)

var savedColumns = []string{
	"article_id", "title", "source", "date", "sentiment", "sentiment_score", "saved_at",
}

// SQLite is a Store backed by a SQLite database file. Writes from this
// process wake subscribers immediately; writes from other processes sharing
// the file are picked up by polling.
type SQLite struct {
	db           *sql.DB
	namespace    string
	pollInterval time.Duration
	now          func() time.Time
	hub          *hub
}

// NewSQLite opens or creates the database at cfg.SQLitePath and its schema.
func NewSQLite(cfg types.StoreConfig, now func() time.Time) (*SQLite, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.SQLitePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if now == nil {
		now = time.Now
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	s := &SQLite{
		db:           db,
		namespace:    cfg.Namespace,
		pollInterval: poll,
		now:          now,
		hub:          newHub(),
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close ends open subscriptions with ErrClosed and releases the database
// connection.
func (s *SQLite) Close() error {
	s.hub.closeAll()
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS saved_articles (
			namespace TEXT NOT NULL,
			user_id TEXT NOT NULL,
			article_id TEXT NOT NULL,
			title TEXT,
			source TEXT,
			date TEXT,
			sentiment TEXT,
			sentiment_score REAL,
			saved_at INTEGER NOT NULL,
			PRIMARY KEY (namespace, user_id, article_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_articles_user_time
			ON saved_articles(namespace, user_id, saved_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert writes rec, stamping saved_at (unix nanoseconds) from the store's
// clock.
func (s *SQLite) Upsert(ctx context.Context, userID string, rec types.SavedRecord) error {
	if err := validate(userID, rec.ID); err != nil {
		return err
	}

	query, args, err := sq.Insert(savedTable).
		Columns(append([]string{"namespace", "user_id"}, savedColumns...)...).
		Values(s.namespace, userID, rec.ID, rec.Title, rec.Source, rec.Date,
			string(rec.Sentiment), rec.SentimentScore, s.now().UTC().UnixNano()).
		Suffix(`ON CONFLICT(namespace, user_id, article_id) DO UPDATE SET
			title=excluded.title, source=excluded.source, date=excluded.date,
			sentiment=excluded.sentiment, sentiment_score=excluded.sentiment_score,
			saved_at=excluded.saved_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting saved article %s: %w", rec.ID, err)
	}
	s.hub.notify(userID)
	return nil
}

func (s *SQLite) Delete(ctx context.Context, userID, articleID string) error {
	if err := validate(userID, articleID); err != nil {
		return err
	}

	query, args, err := sq.Delete(savedTable).
		Where(sq.Eq{"namespace": s.namespace, "user_id": userID, "article_id": articleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting saved article %s: %w", articleID, err)
	}
	s.hub.notify(userID)
	return nil
}

func (s *SQLite) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("subscribing to saved articles: %w", err)
	}

	return s.hub.subscribe(ctx, userID, s.pollInterval, func(ctx context.Context) (Snapshot, error) {
		return s.snapshot(ctx, userID)
	}), nil
}

func (s *SQLite) snapshot(ctx context.Context, userID string) (Snapshot, error) {
	query, args, err := sq.Select(savedColumns...).
		From(savedTable).
		Where(sq.Eq{"namespace": s.namespace, "user_id": userID}).
		OrderBy("saved_at DESC", "article_id").
		ToSql()
	if err != nil {
		return Snapshot{}, fmt.Errorf("building snapshot query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying saved articles: %w", err)
	}
	defer rows.Close()

	recs := []types.SavedRecord{}
	for rows.Next() {
		var (
			rec       types.SavedRecord
			sentiment string
			savedAt   int64
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Source, &rec.Date,
			&sentiment, &rec.SentimentScore, &savedAt); err != nil {
			return Snapshot{}, fmt.Errorf("scanning row: %w", err)
		}
		rec.Sentiment = types.Sentiment(sentiment)
		rec.SavedAt = time.Unix(0, savedAt).UTC()
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("reading saved articles: %w", err)
	}
	return Snapshot{Records: recs}, nil
}
