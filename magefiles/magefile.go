//go:build mage

// Package main contains Mage build targets for sentiment-dashboard developer
// tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/sentiment-dashboard/internal/container"
)

const (
	binDir     = "bin"
	binName    = "sentiment-dashboard"
	cmdPkg     = "./cmd/sentiment-dashboard"
	dataDir    = ".sentiment-dashboard"
	secretsDir = ".secrets"
	configFile = "sentiment-dashboard.yaml"
	redisPort  = 6379
)

// Default target when mage runs without arguments.
var Default = Build

const sampleConfig = `# sentiment-dashboard configuration. Flags and SENTIMENT_DASHBOARD_* env
# vars override these values; .secrets/user-id and .secrets/redis-url
# supply user and store.redis_url when unset.
store:
  backend: sqlite
  namespace: sentiment-dashboard
  sqlite_path: .sentiment-dashboard/saved.db
  poll_interval: 2s
  op_timeout: 10s
catalog:
  # file: headlines.yaml
  # feeds:
  #   - https://example.com/markets.rss
  timeout: 15s
log:
  level: info
  format: text
`

// Init creates the local data and secrets directories and a sample config
// file when none exists.
func Init() error {
	for _, dir := range []string{dataDir, secretsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	if _, err := os.Stat(configFile); err == nil {
		fmt.Println("Config exists:", configFile)
		return nil
	}
	if err := os.WriteFile(configFile, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Println("Wrote", configFile)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests with the race detector.
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "-race", "./...")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Redis starts a local Redis container for the redis store backend and
// writes its URL to .secrets/redis-url.
func Redis() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	svc := container.RedisService(redisPort)
	started, err := container.Up(rt, svc)
	if err != nil {
		return err
	}
	if started {
		fmt.Printf("Started %s with %s\n", svc.Name, rt.Name())
	} else {
		fmt.Printf("%s already running\n", svc.Name)
	}

	if err := os.MkdirAll(secretsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", secretsDir, err)
	}
	url := fmt.Sprintf("redis://localhost:%d/0\n", redisPort)
	return os.WriteFile(filepath.Join(secretsDir, "redis-url"), []byte(url), 0o600)
}

// RedisStop stops the container started by Redis.
func RedisStop() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	return rt.Stop(container.RedisService(redisPort).Name)
}

// Stats prints project metrics: Go production and test line counts.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines counts non-blank lines in .go files, split into production
// and test files. Directories starting with "_" or "." are skipped.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".go" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				n++
			}
		}
		if strings.HasSuffix(name, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return sc.Err()
	})
	return prod, test, err
}
