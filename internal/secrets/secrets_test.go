// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyUserID, "  alice-7f3a  \n")
				writeFile(t, dir, KeyRedisURL, "redis://:pw@localhost:6379/0\n")
				return dir
			},
			want: map[string]string{
				KeyUserID:   "alice-7f3a",
				KeyRedisURL: "redis://:pw@localhost:6379/0",
			},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips blank files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyUserID, "u1")
				writeFile(t, dir, KeyRedisURL, "   \n\t  ")
				return dir
			},
			want: map[string]string{KeyUserID: "u1"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".user-id", "hidden")
				writeFile(t, dir, KeyUserID, "u1")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: map[string]string{KeyUserID: "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}

	dir := t.TempDir()
	writeFile(t, dir, KeyUserID, "u1")
	badPath := filepath.Join(dir, KeyRedisURL)
	require.NoError(t, os.WriteFile(badPath, []byte("redis://x"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var buf bytes.Buffer
	got, err := Load(dir, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyUserID: "u1"}, got)
	assert.Contains(t, buf.String(), "could not read secret")
}

func TestDefaults(t *testing.T) {
	got := Defaults(map[string]string{
		KeyUserID:   "u1",
		KeyRedisURL: "redis://localhost:6379",
		"unrelated": "ignored",
	})
	assert.Equal(t, map[string]string{
		"user":            "u1",
		"store.redis_url": "redis://localhost:6379",
	}, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
