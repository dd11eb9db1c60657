// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/sentiment-dashboard/internal/httputil"
	"github.com/pdiddy/sentiment-dashboard/internal/logging"
	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

const (
	defaultFeedTimeout   = 15 * time.Second
	defaultUserAgent     = "sentiment-dashboard/0.1"
	maxConcurrentFetches = 4
)

// Feeds reads headlines from RSS or Atom feeds. Feeds are fetched
// concurrently; a feed that fails is logged and skipped unless every feed
// fails.
type Feeds struct {
	URLs   []string
	Client *http.Client
	Config types.HTTPConfig
	Logger *slog.Logger

	// Now dates items that carry no publish time. Defaults to time.Now.
	Now func() time.Time
}

func (f *Feeds) Name() string { return "feeds" }

// Load fetches every feed and returns their items in feed order, dropping
// items already seen under the same ID.
func (f *Feeds) Load(ctx context.Context) ([]types.Article, error) {
	logger := logging.OrDiscard(f.Logger)

	perFeed := make([][]types.Article, len(f.URLs))
	errs := make([]error, len(f.URLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, u := range f.URLs {
		g.Go(func() error {
			articles, err := f.fetch(gctx, u, logger)
			if err != nil {
				logger.Warn("feed fetch failed", "url", u, "error", err)
				errs[i] = fmt.Errorf("feed %s: %w", u, err)
				return nil
			}
			logger.Info("feed fetched", "url", u, "articles", len(articles))
			perFeed[i] = articles
			return nil
		})
	}
	g.Wait()

	var (
		out    []types.Article
		seen   = make(map[string]struct{})
		failed int
	)
	for i := range f.URLs {
		if errs[i] != nil {
			failed++
			continue
		}
		for _, a := range perFeed[i] {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}

	if len(f.URLs) > 0 && failed == len(f.URLs) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (f *Feeds) fetch(ctx context.Context, feedURL string, logger *slog.Logger) ([]types.Article, error) {
	client := f.Client
	if client == nil {
		timeout := f.Config.Timeout
		if timeout <= 0 {
			timeout = defaultFeedTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	userAgent := f.Config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, f.Config.MaxRetries, logger)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	source := strings.TrimSpace(parsed.Title)
	if source == "" {
		if u, err := url.Parse(feedURL); err == nil {
			source = u.Hostname()
		}
	}

	articles := make([]types.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		title := plainText(item.Title)
		if title == "" {
			continue
		}

		published := now()
		switch {
		case item.PublishedParsed != nil:
			published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			published = *item.UpdatedParsed
		}

		key := item.GUID
		if key == "" {
			key = item.Link
		}
		if key == "" {
			key = title
		}

		articles = append(articles, types.Article{
			ID:     itemID(feedURL, key),
			Title:  title,
			Source: source,
			Date:   published.UTC().Format(DateLayout),
		})
	}
	return articles, nil
}

// plainText strips markup some feeds leave in titles and collapses
// whitespace.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// itemID is stable across fetches so saved records keep joining.
func itemID(feedURL, key string) string {
	h := sha256.Sum256([]byte(feedURL + "|" + key))
	return fmt.Sprintf("%x", h[:8])
}
