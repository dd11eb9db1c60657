// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sentiment-dashboard CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sentiment-dashboard/internal/logging"
	"github.com/pdiddy/sentiment-dashboard/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log.* settings before any subcommand runs.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "sentiment-dashboard",
	Short: "Financial headline sentiment dashboard",
	Long: `sentiment-dashboard scores financial news headlines with a keyword
heuristic, charts the daily average sentiment, and keeps a per-user set of
saved headlines that stays in sync across every process sharing the store.

Headlines come from the built-in example catalog, a YAML/JSON file
(--catalog-file), or RSS/Atom feeds (--feed). Saved headlines live in
SQLite (default), Redis, or memory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		for key, value := range secrets.Defaults(s) {
			viper.SetDefault(key, value)
		}
		if len(s) > 0 {
			names := make([]string, 0, len(s))
			for k := range s {
				names = append(names, k)
			}
			sort.Strings(names)
			logger.Debug("loaded secrets", "names", names)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	f := rootCmd.PersistentFlags()
	f.String("config", "", "config file (default: ./sentiment-dashboard.yaml or ~/.config/sentiment-dashboard/sentiment-dashboard.yaml)")
	f.String("secrets-dir", ".secrets/", "directory of secret files (user-id, redis-url)")

	f.String("user", "", "user identity that scopes saved headlines")
	f.String("store-backend", "sqlite", "saved-state store: sqlite, redis, or memory")
	f.String("store-namespace", "sentiment-dashboard", "first segment of saved record keys")
	f.String("sqlite-path", filepath.Join(".sentiment-dashboard", "saved.db"), "SQLite database file")
	f.String("redis-url", "", "Redis URL for the redis store (e.g. redis://localhost:6379/0)")
	f.Duration("poll-interval", 0, "how often SQLite checks for writes from other processes (0 = 2s)")
	f.Duration("op-timeout", 0, "bound on each save or remove call (0 = none)")

	f.String("catalog-file", "", "YAML or JSON file of articles")
	f.StringSlice("feed", nil, "RSS or Atom feed URL (repeatable)")
	f.Duration("feed-timeout", 0, "HTTP timeout per feed (0 = 15s)")
	f.String("user-agent", "", "User-Agent sent to feeds")
	f.Uint64("seed", 0, "seed for score draws (0 = clock)")

	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", "text", "log format: text or json")

	bindFlags := map[string]string{
		"user":                "user",
		"store.backend":       "store-backend",
		"store.namespace":     "store-namespace",
		"store.sqlite_path":   "sqlite-path",
		"store.redis_url":     "redis-url",
		"store.poll_interval": "poll-interval",
		"store.op_timeout":    "op-timeout",
		"catalog.file":        "catalog-file",
		"catalog.feeds":       "feed",
		"catalog.timeout":     "feed-timeout",
		"catalog.user_agent":  "user-agent",
		"scorer.seed":         "seed",
		"log.level":           "log-level",
		"log.format":          "log-format",
	}
	for key, flag := range bindFlags {
		if err := viper.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sentiment-dashboard")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sentiment-dashboard"))
		}
	}

	viper.SetEnvPrefix("SENTIMENT_DASHBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "warning: could not read config file:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
