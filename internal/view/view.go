// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view derives the dashboard's read models from immutable snapshots:
// the annotated article list, its filtered subset, and the daily trend.
// Every function here is pure and cheap enough to re-run on each change.
package view

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// FilterAll disables sentiment filtering.
const FilterAll = "all"

var ErrInvalidFilter = errors.New("invalid sentiment filter")

// Project flags each catalog entry with whether its ID is saved. The result
// has the same length and order as catalog.
func Project(catalog []types.ScoredArticle, saved types.SavedSet) []types.AnnotatedArticle {
	out := make([]types.AnnotatedArticle, len(catalog))
	for i, a := range catalog {
		out[i] = types.AnnotatedArticle{ScoredArticle: a, IsSaved: saved.Contains(a.ID)}
	}
	return out
}

// ParseSentimentFilter normalises a user-supplied filter. An empty string
// means FilterAll.
func ParseSentimentFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == FilterAll {
		return FilterAll, nil
	}
	if _, err := types.ParseSentiment(s); err != nil {
		return "", fmt.Errorf("%w %q: use all, positive, negative, or neutral", ErrInvalidFilter, s)
	}
	return s, nil
}

// Filter keeps the articles matching sentimentFilter and containing term in
// their title or source, case-insensitively. FilterAll and an empty term are
// pass-throughs; with both, list itself is returned. Order is preserved. A
// filter that matches nothing returns an empty, non-nil slice.
func Filter(list []types.AnnotatedArticle, sentimentFilter, term string) []types.AnnotatedArticle {
	if (sentimentFilter == FilterAll || sentimentFilter == "") && term == "" {
		return list
	}

	out := list
	if sentimentFilter != FilterAll && sentimentFilter != "" {
		out = make([]types.AnnotatedArticle, 0, len(list))
		for _, a := range list {
			if string(a.Sentiment) == sentimentFilter {
				out = append(out, a)
			}
		}
	}

	if term != "" {
		needle := strings.ToLower(term)
		matched := make([]types.AnnotatedArticle, 0, len(out))
		for _, a := range out {
			if strings.Contains(strings.ToLower(a.Title), needle) ||
				strings.Contains(strings.ToLower(a.Source), needle) {
				matched = append(matched, a)
			}
		}
		out = matched
	}
	return out
}

// Aggregate averages scores per date across list and returns one point per
// distinct date in ascending order. Dates are compared as strings, which is
// chronological for YYYY-MM-DD. Pass the unfiltered list: the trend shows
// overall mood, not mood within the current search.
func Aggregate(list []types.AnnotatedArticle) []types.TrendPoint {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, a := range list {
		g, ok := groups[a.Date]
		if !ok {
			g = &acc{}
			groups[a.Date] = g
		}
		g.sum += a.Score
		g.count++
	}

	points := make([]types.TrendPoint, 0, len(groups))
	for date, g := range groups {
		points = append(points, types.TrendPoint{
			Date:         date,
			AvgSentiment: round2(g.sum / float64(g.count)),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
