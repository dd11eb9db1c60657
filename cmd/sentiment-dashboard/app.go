// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/sentiment-dashboard/internal/catalog"
	"github.com/pdiddy/sentiment-dashboard/internal/dashboard"
	"github.com/pdiddy/sentiment-dashboard/internal/saved"
	"github.com/pdiddy/sentiment-dashboard/internal/sentiment"
	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// dashboardConfig reads every setting from viper (flags, env, config file,
// secrets, in that order of precedence).
func dashboardConfig() types.DashboardConfig {
	return types.DashboardConfig{
		UserID: viper.GetString("user"),
		Catalog: types.CatalogConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("catalog.timeout"),
				UserAgent: viper.GetString("catalog.user_agent"),
			},
			File:  viper.GetString("catalog.file"),
			Feeds: viper.GetStringSlice("catalog.feeds"),
		},
		Scorer: types.ScorerConfig{
			Seed: viper.GetUint64("scorer.seed"),
		},
		Store: types.StoreConfig{
			Backend:      types.StoreBackend(viper.GetString("store.backend")),
			Namespace:    viper.GetString("store.namespace"),
			SQLitePath:   viper.GetString("store.sqlite_path"),
			RedisURL:     viper.GetString("store.redis_url"),
			PollInterval: viper.GetDuration("store.poll_interval"),
			OpTimeout:    viper.GetDuration("store.op_timeout"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}
}

// catalogSource picks feeds, then a file, then the built-in examples.
func catalogSource(cfg types.CatalogConfig) catalog.Source {
	switch {
	case len(cfg.Feeds) > 0:
		return &catalog.Feeds{URLs: cfg.Feeds, Config: cfg.HTTPConfig, Logger: logger}
	case cfg.File != "":
		return catalog.File{Path: cfg.File}
	default:
		return catalog.Builtin{}
	}
}

// app is one CLI invocation's dashboard session and the store behind it.
type app struct {
	cfg     types.DashboardConfig
	store   saved.Store
	session *dashboard.Session
}

// newApp loads the catalog and, when a user identity is configured, opens
// the store and subscribes to the user's saved set.
func newApp(ctx context.Context) (*app, error) {
	cfg := dashboardConfig()

	src := catalogSource(cfg.Catalog)
	cat, err := catalog.Load(ctx, src, sentiment.NewSeeded(cfg.Scorer.Seed))
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", src.Name(), err)
	}
	logger.Debug("catalog loaded", "source", src.Name(), "articles", cat.Len())

	a := &app{cfg: cfg}
	if cfg.UserID != "" {
		store, err := saved.Open(ctx, cfg.Store, logger)
		if err != nil {
			return nil, fmt.Errorf("opening saved store: %w", err)
		}
		a.store = store
	}

	a.session = dashboard.New(cat, a.store, dashboard.Options{
		OpTimeout: cfg.Store.OpTimeout,
		Logger:    logger,
	})

	if err := a.session.SetIdentity(ctx, cfg.UserID); err != nil {
		// Headlines stay usable without saved state.
		logger.Warn("saved state unavailable", "error", err)
	}
	return a, nil
}

// requireUser fails commands that only make sense with an identity.
func (a *app) requireUser() error {
	if a.cfg.UserID == "" {
		return fmt.Errorf("no user identity: set --user, SENTIMENT_DASHBOARD_USER, or .secrets/user-id")
	}
	return nil
}

// Close waits for pending writes, ends the session and closes the store.
func (a *app) Close() {
	a.session.Wait()
	a.session.Close()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("closing saved store", "error", err)
		}
	}
}
