// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

var exampleArticles = []types.Article{
	{ID: "1", Title: "Tech Stocks Surge as AI Optimism Drives Record Gains", Source: "Reuters", Date: "2025-11-15"},
	{ID: "2", Title: "Oil Prices Plunge Amid Global Demand Concerns", Source: "Bloomberg", Date: "2025-11-15"},
	{ID: "3", Title: "Federal Reserve Holds Interest Rates Steady", Source: "Wall Street Journal", Date: "2025-11-14"},
	{ID: "4", Title: "Tesla Shares Fall After Delivery Miss", Source: "CNBC", Date: "2025-11-14"},
	{ID: "5", Title: "Retail Sales Beat Expectations, But Inflation Fears Persist", Source: "MarketWatch", Date: "2025-11-13"},
	{ID: "6", Title: "Gold Hits All-Time High as Investors Seek Safety", Source: "Financial Times", Date: "2025-11-13"},
	{ID: "7", Title: "Bank Earnings Show Strong Profit Growth", Source: "Reuters", Date: "2025-11-12"},
	{ID: "8", Title: "Crypto Market Slumps as Regulators Tighten Rules", Source: "Bloomberg", Date: "2025-11-12"},
}

// Builtin is the example catalog used when no file or feed is configured.
type Builtin struct{}

func (Builtin) Name() string { return "builtin" }

// Load returns a copy of the example articles.
func (Builtin) Load(context.Context) ([]types.Article, error) {
	out := make([]types.Article, len(exampleArticles))
	copy(out, exampleArticles)
	return out, nil
}
