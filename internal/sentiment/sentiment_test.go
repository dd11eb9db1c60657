// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// fixedSource always returns the same draw.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestScore_Ranges(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		want     types.Sentiment
		min, max float64
	}{
		{"positive only", "Tech Stocks Surge to Record", types.SentimentPositive, 0.5, 0.9},
		{"negative only", "Oil Prices Plunge", types.SentimentNegative, 0.1, 0.5},
		{"both", "Sales Beat Estimates but Fears Persist", types.SentimentNeutral, 0.45, 0.55},
	}

	s := NewSeeded(42)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				label, score := s.Score(tt.headline)
				assert.Equal(t, tt.want, label)
				assert.GreaterOrEqual(t, score, tt.min)
				assert.LessOrEqual(t, score, tt.max)
			}
		})
	}
}

func TestScore_NeitherIsExactlyNeutral(t *testing.T) {
	s := NewSeeded(7)
	for i := 0; i < 100; i++ {
		label, score := s.Score("Federal Reserve Holds Interest Rates Steady")
		assert.Equal(t, types.SentimentNeutral, label)
		assert.Equal(t, NeutralScore, score)
	}
}

func TestScore_CaseInsensitiveSubstring(t *testing.T) {
	s := New(fixedSource(0.5))

	label, _ := s.Score("MARKETS RALLY")
	assert.Equal(t, types.SentimentPositive, label)

	// Substring, not word match: "downgraded" contains "downgrade".
	label, _ = s.Score("Analysts downgraded the sector")
	assert.Equal(t, types.SentimentNegative, label)
}

func TestScore_DeterministicSource(t *testing.T) {
	tests := []struct {
		name     string
		draw     float64
		headline string
		want     float64
	}{
		{"positive midpoint", 0.5, "Shares soar", 0.7},
		{"positive low", 0, "Shares soar", 0.5},
		{"positive near top rounds to cap", 0.999, "Shares soar", 0.9},
		{"negative midpoint", 0.5, "Shares slump", 0.3},
		{"negative quarter", 0.25, "Shares slump", 0.4},
		{"mixed high", 0.9, "Profit up but layoffs loom", 0.54},
		{"mixed low", 0, "Profit up but layoffs loom", 0.45},
		{"rounded to three decimals", 0.12345, "Shares soar", 0.549},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(fixedSource(tt.draw))
			_, got := s.Score(tt.headline)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScore_SeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(99), NewSeeded(99)
	for i := 0; i < 50; i++ {
		_, sa := a.Score("Gold hits a new high")
		_, sb := b.Score("Gold hits a new high")
		assert.Equal(t, sa, sb)
	}
}

func TestScoreArticle(t *testing.T) {
	s := New(fixedSource(0.5))
	a := types.Article{ID: "1", Title: "Bank earnings show strong growth", Source: "Reuters", Date: "2025-11-12"}

	got := s.ScoreArticle(a)
	assert.Equal(t, a, got.Article)
	assert.Equal(t, types.SentimentPositive, got.Sentiment)
	assert.InDelta(t, 0.7, got.Score, 1e-9)
}
