// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept out of the config file. Each file in
// the secrets directory is one secret: the filename is the key and the
// trimmed contents are the value.
//
// Recognised keys: user-id, redis-url.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/sentiment-dashboard/internal/logging"
)

const (
	// KeyUserID holds the opaque identity saved articles are stored under.
	KeyUserID = "user-id"
	// KeyRedisURL holds a redis:// URL, which may embed a password.
	KeyRedisURL = "redis-url"
)

// ConfigKeys maps each recognised secret to the config key it defaults.
var ConfigKeys = map[string]string{
	KeyUserID:   "user",
	KeyRedisURL: "store.redis_url",
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty map. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	logger = logging.OrDiscard(logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Defaults returns the config defaults supplied by the recognised secrets
// in s, keyed by config key.
func Defaults(s map[string]string) map[string]string {
	out := make(map[string]string)
	for name, key := range ConfigKeys {
		if v, ok := s[name]; ok {
			out[key] = v
		}
	}
	return out
}
