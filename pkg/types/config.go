// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by catalog sources that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sentiment-dashboard/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CatalogConfig selects where headlines come from. When neither File nor
// Feeds is set, the built-in example catalog is used.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// File is a YAML or JSON file holding a list of articles.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Feeds lists RSS or Atom feed URLs to read headlines from.
	Feeds []string `json:"feeds,omitempty" yaml:"feeds,omitempty"`
}

// ScorerConfig holds settings for the sentiment scorer.
type ScorerConfig struct {
	// Seed makes score draws reproducible. Zero seeds from the clock.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// StoreBackend identifies the saved-state store implementation.
type StoreBackend string

const (
	BackendMemory StoreBackend = "memory"
	BackendSQLite StoreBackend = "sqlite"
	BackendRedis  StoreBackend = "redis"
)

// StoreConfig holds settings for the saved-state store.
type StoreConfig struct {
	// Backend selects memory, sqlite, or redis.
	Backend StoreBackend `json:"backend" yaml:"backend"`

	// Namespace is the first segment of every record key
	// ({namespace}/{userId}/saved_articles/{articleId}).
	Namespace string `json:"namespace" yaml:"namespace"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`

	// RedisURL is the connection URL for the redis backend
	// (e.g. "redis://localhost:6379/0").
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`

	// PollInterval is how often the sqlite backend checks for writes made
	// by other processes (default 2s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// OpTimeout bounds a single save or remove call. Zero means no bound.
	OpTimeout time.Duration `json:"op_timeout" yaml:"op_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// DashboardConfig groups all settings for a dashboard session.
type DashboardConfig struct {
	// UserID is the opaque identity that scopes saved records.
	UserID string `json:"user_id" yaml:"user_id"`

	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Scorer  ScorerConfig  `json:"scorer" yaml:"scorer"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
