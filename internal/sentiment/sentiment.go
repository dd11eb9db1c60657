// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentiment assigns a label and score to a headline using a fixed
// keyword heuristic.
//
// Scores are drawn at random within a label-specific range, so re-scoring a
// headline may change its score but never its label. The random source is
// injected; tests substitute a deterministic one.
package sentiment

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// Matching is by substring containment against the lower-cased headline, so
// entries are lower-case word stems.
var (
	positiveKeywords = []string{
		"surge", "soar", "rally", "gain", "record", "beat", "growth",
		"profit", "strong", "high", "rise", "boost", "bullish", "upgrade",
	}
	negativeKeywords = []string{
		"fall", "plunge", "drop", "decline", "loss", "miss", "slump",
		"crash", "fear", "concern", "weak", "cut", "bearish", "downgrade",
		"layoff",
	}
)

// NeutralScore is the score of a headline that matches no keyword.
const NeutralScore = 0.5

// Source yields uniform floats in [0.0, 1.0). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Scorer maps headlines to sentiment. It is safe for concurrent use.
type Scorer struct {
	mu  sync.Mutex
	src Source
}

// New returns a Scorer drawing from src. A nil src uses a clock-seeded PCG.
func New(src Source) *Scorer {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.New(rand.NewPCG(now, now>>1))
	}
	return &Scorer{src: src}
}

// NewSeeded returns a Scorer whose draws are reproducible for a given seed.
// Seed zero falls back to a clock-seeded source.
func NewSeeded(seed uint64) *Scorer {
	if seed == 0 {
		return New(nil)
	}
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Score labels the headline and draws a score within the label's range:
//
//	positive only  [0.5, 0.9]
//	negative only  [0.1, 0.5]
//	both           [0.45, 0.55], labelled neutral
//	neither        exactly 0.5, labelled neutral
//
// The mixed case is not clamped to [0.1, 0.9] like the single-signal cases.
// The result is rounded to three decimals.
func (s *Scorer) Score(headline string) (types.Sentiment, float64) {
	text := strings.ToLower(headline)
	pos := containsAny(text, positiveKeywords)
	neg := containsAny(text, negativeKeywords)

	switch {
	case pos && !neg:
		return types.SentimentPositive, round3(math.Min(0.9, 0.5+s.draw()*0.4))
	case neg && !pos:
		return types.SentimentNegative, round3(math.Max(0.1, 0.5-s.draw()*0.4))
	case pos && neg:
		return types.SentimentNeutral, round3(0.5 + (s.draw()-0.5)*0.1)
	default:
		return types.SentimentNeutral, NeutralScore
	}
}

// ScoreArticle returns a with the scorer's verdict attached.
func (s *Scorer) ScoreArticle(a types.Article) types.ScoredArticle {
	label, score := s.Score(a.Title)
	return types.ScoredArticle{Article: a, Sentiment: label, Score: score}
}

func (s *Scorer) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
