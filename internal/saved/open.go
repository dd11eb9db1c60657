// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package saved

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// DefaultNamespace prefixes record keys when none is configured.
const DefaultNamespace = "sentiment-dashboard"

// Open builds the Store selected by cfg.Backend. A nil logger discards.
func Open(ctx context.Context, cfg types.StoreConfig, logger *slog.Logger) (Store, error) {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemory(nil), nil
	case types.BackendSQLite, "":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return NewSQLite(cfg, nil)
	case types.BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis backend requires a redis url")
		}
		return NewRedis(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported store backend %q: use memory, sqlite, or redis", cfg.Backend)
	}
}
