// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sentiment dashboard.
// Articles flow through the pipeline as Article (raw catalog entry),
// ScoredArticle (after the sentiment scorer), and AnnotatedArticle (after the
// join with a user's saved state). SavedRecord is the persisted form and
// TrendPoint the aggregated form.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment is the coarse mood label assigned to a headline.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment converts a user-supplied label to a Sentiment.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNegative:
		return SentimentNegative, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	}
	return "", fmt.Errorf("unknown sentiment %q: use positive, negative, or neutral", s)
}

// Article is a headline record supplied by a catalog source. It is never
// mutated after creation.
type Article struct {
	// ID uniquely identifies the article within a catalog and is the key
	// under which a user's saved record is stored.
	ID string `json:"id" yaml:"id"`

	// Title is the headline text subject to scoring.
	Title string `json:"title" yaml:"title"`

	// Source names the publisher (e.g. "Reuters").
	Source string `json:"source" yaml:"source"`

	// Date is the calendar date of publication in YYYY-MM-DD form.
	Date string `json:"date" yaml:"date"`
}

// ScoredArticle is an Article with the scorer's verdict attached.
type ScoredArticle struct {
	Article `yaml:",inline"`

	// Sentiment is positive, negative, or neutral.
	Sentiment Sentiment `json:"sentiment" yaml:"sentiment"`

	// Score is in [0.0, 1.0]; 1.0 is most positive.
	Score float64 `json:"score" yaml:"score"`
}

// AnnotatedArticle is a ScoredArticle flagged with the current user's saved
// state. It is a view and is never persisted.
type AnnotatedArticle struct {
	ScoredArticle `yaml:",inline"`

	IsSaved bool `json:"is_saved" yaml:"is_saved"`
}

// SavedRecord is a user's persisted copy of a scored article. ID must equal
// the source Article's ID; the projector joins on it.
type SavedRecord struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Source         string    `json:"source" yaml:"source"`
	Date           string    `json:"date" yaml:"date"`
	Sentiment      Sentiment `json:"sentiment" yaml:"sentiment"`
	SentimentScore float64   `json:"sentiment_score" yaml:"sentiment_score"`

	// SavedAt is assigned by the store on every upsert.
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`
}

// NewSavedRecord copies the persisted fields of a. SavedAt is left zero for
// the store to assign.
func NewSavedRecord(a ScoredArticle) SavedRecord {
	return SavedRecord{
		ID:             a.ID,
		Title:          a.Title,
		Source:         a.Source,
		Date:           a.Date,
		Sentiment:      a.Sentiment,
		SentimentScore: a.Score,
	}
}

// SavedSet is the set of article IDs a user has saved.
type SavedSet map[string]struct{}

// NewSavedSet builds a set from the given IDs.
func NewSavedSet(ids ...string) SavedSet {
	s := make(SavedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (s SavedSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// TrendPoint is the average sentiment score of all articles on one date.
type TrendPoint struct {
	Date string `json:"date" yaml:"date"`

	// AvgSentiment is rounded to two decimal places.
	AvgSentiment float64 `json:"avg_sentiment" yaml:"avg_sentiment"`
}
