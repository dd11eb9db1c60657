// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads headline records from a source, validates them, and
// scores each one exactly once.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/sentiment-dashboard/internal/sentiment"
	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// DateLayout is the only accepted article date format. Trend ordering relies
// on lexical order of these strings matching calendar order.
const DateLayout = "2006-01-02"

var (
	ErrEmptyID      = errors.New("article id is empty")
	ErrDuplicateID  = errors.New("duplicate article id")
	ErrInvalidDate  = errors.New("article date is not YYYY-MM-DD")
	ErrEmptyCatalog = errors.New("catalog source returned no articles")
)

// Source supplies an ordered sequence of articles.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]types.Article, error)
}

// Catalog is an immutable, ordered list of scored articles.
type Catalog struct {
	articles []types.ScoredArticle
	index    map[string]int
}

// New validates articles and scores each with scorer.
func New(articles []types.Article, scorer *sentiment.Scorer) (*Catalog, error) {
	if err := Validate(articles); err != nil {
		return nil, err
	}

	c := &Catalog{
		articles: make([]types.ScoredArticle, len(articles)),
		index:    make(map[string]int, len(articles)),
	}
	for i, a := range articles {
		c.articles[i] = scorer.ScoreArticle(a)
		c.index[a.ID] = i
	}
	return c, nil
}

// Load reads articles from src and builds a Catalog.
func Load(ctx context.Context, src Source, scorer *sentiment.Scorer) (*Catalog, error) {
	articles, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s catalog: %w", src.Name(), err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("loading %s catalog: %w", src.Name(), ErrEmptyCatalog)
	}
	return New(articles, scorer)
}

// Validate checks that every article has a unique, non-empty ID and a
// zero-padded ISO calendar date.
func Validate(articles []types.Article) error {
	seen := make(map[string]struct{}, len(articles))
	for i, a := range articles {
		if a.ID == "" {
			return fmt.Errorf("article %d (%q): %w", i, a.Title, ErrEmptyID)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("article %s: %w", a.ID, ErrDuplicateID)
		}
		seen[a.ID] = struct{}{}

		if !ValidDate(a.Date) {
			return fmt.Errorf("article %s date %q: %w", a.ID, a.Date, ErrInvalidDate)
		}
	}
	return nil
}

// ValidDate reports whether s is a YYYY-MM-DD date.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Articles returns a copy of the scored articles in source order.
func (c *Catalog) Articles() []types.ScoredArticle {
	out := make([]types.ScoredArticle, len(c.articles))
	copy(out, c.articles)
	return out
}

// Lookup returns the scored article with the given ID.
func (c *Catalog) Lookup(id string) (types.ScoredArticle, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.ScoredArticle{}, false
	}
	return c.articles[i], true
}

// Len returns the number of articles.
func (c *Catalog) Len() int {
	return len(c.articles)
}
