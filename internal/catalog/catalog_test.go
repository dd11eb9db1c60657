// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sentiment-dashboard/internal/sentiment"
	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// --- test helpers ---

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// countingSource counts draws so tests can prove articles are scored once.
type countingSource struct{ n int }

func (c *countingSource) Float64() float64 { c.n++; return 0.5 }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- catalog tests ---

func TestLoadBuiltin(t *testing.T) {
	cat, err := Load(context.Background(), Builtin{}, sentiment.New(fixedSource(0.5)))
	require.NoError(t, err)
	require.Equal(t, 8, cat.Len())

	want := map[string]types.Sentiment{
		"1": types.SentimentPositive,
		"2": types.SentimentNegative,
		"3": types.SentimentNeutral,
		"4": types.SentimentNegative,
		"5": types.SentimentNeutral,
		"6": types.SentimentPositive,
		"7": types.SentimentPositive,
		"8": types.SentimentNegative,
	}
	for _, a := range cat.Articles() {
		assert.Equal(t, want[a.ID], a.Sentiment, "article %s %q", a.ID, a.Title)
	}

	three, ok := cat.Lookup("3")
	require.True(t, ok)
	assert.Equal(t, 0.5, three.Score)
}

func TestNewScoresOnce(t *testing.T) {
	src := &countingSource{}
	cat, err := New([]types.Article{
		{ID: "a", Title: "Stocks rally", Date: "2025-01-02"},
		{ID: "b", Title: "Stocks slump", Date: "2025-01-02"},
	}, sentiment.New(src))
	require.NoError(t, err)
	assert.Equal(t, 2, src.n)

	cat.Articles()
	cat.Articles()
	cat.Lookup("a")
	assert.Equal(t, 2, src.n, "reading the catalog must not re-score")
}

func TestArticlesReturnsCopy(t *testing.T) {
	cat, err := Load(context.Background(), Builtin{}, sentiment.New(fixedSource(0.5)))
	require.NoError(t, err)

	got := cat.Articles()
	got[0].Title = "mutated"

	first, _ := cat.Lookup("1")
	assert.NotEqual(t, "mutated", first.Title)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		articles []types.Article
		wantErr  error
	}{
		{"valid", []types.Article{{ID: "a", Date: "2025-11-15"}}, nil},
		{"empty id", []types.Article{{ID: "", Date: "2025-11-15"}}, ErrEmptyID},
		{"duplicate id", []types.Article{{ID: "a", Date: "2025-11-15"}, {ID: "a", Date: "2025-11-14"}}, ErrDuplicateID},
		{"slash date", []types.Article{{ID: "a", Date: "11/15/2025"}}, ErrInvalidDate},
		{"unpadded date", []types.Article{{ID: "a", Date: "2025-1-5"}}, ErrInvalidDate},
		{"impossible date", []types.Article{{ID: "a", Date: "2025-02-30"}}, ErrInvalidDate},
		{"timestamp", []types.Article{{ID: "a", Date: "2025-11-15T10:00:00Z"}}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.articles)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type emptySource struct{}

func (emptySource) Name() string { return "empty" }

func (emptySource) Load(context.Context) ([]types.Article, error) { return nil, nil }

func TestLoadEmptySource(t *testing.T) {
	_, err := Load(context.Background(), emptySource{}, sentiment.New(nil))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

// --- file source tests ---

func TestFileLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml list",
			file: "catalog.yaml",
			content: `- id: "a"
  title: "Stocks rally"
  source: "Reuters"
  date: "2025-11-15"
- id: "b"
  title: "Bonds slump"
  source: "Bloomberg"
  date: "2025-11-14"
`,
		},
		{
			name: "yaml mapping",
			file: "catalog.yml",
			content: `articles:
  - {id: "a", title: "Stocks rally", source: "Reuters", date: "2025-11-15"}
  - {id: "b", title: "Bonds slump", source: "Bloomberg", date: "2025-11-14"}
`,
		},
		{
			name: "json list",
			file: "catalog.json",
			content: `[
  {"id": "a", "title": "Stocks rally", "source": "Reuters", "date": "2025-11-15"},
  {"id": "b", "title": "Bonds slump", "source": "Bloomberg", "date": "2025-11-14"}
]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			got, err := File{Path: path}.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, types.Article{ID: "a", Title: "Stocks rally", Source: "Reuters", Date: "2025-11-15"}, got[0])
			assert.Equal(t, "b", got[1].ID)
		})
	}
}

func TestFileLoadErrors(t *testing.T) {
	_, err := File{Path: filepath.Join(t.TempDir(), "missing.yaml")}.Load(context.Background())
	assert.Error(t, err)

	path := writeFile(t, "scalar.yaml", "just a string\n")
	_, err = File{Path: path}.Load(context.Background())
	assert.Error(t, err)
}

// --- feed source tests ---

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>%s</title>
  <link>https://example.com</link>
  <description>markets</description>
  <item>
    <title>Stocks &lt;b&gt;Rally&lt;/b&gt; on Jobs Data</title>
    <link>https://example.com/a</link>
    <guid>a</guid>
    <pubDate>Sat, 15 Nov 2025 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Bonds Slump</title>
    <link>https://example.com/b</link>
  </item>
</channel>
</rss>`

func TestFeedsLoad(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, rssTemplate, "Example Markets")
	}))
	defer ts.Close()

	f := &Feeds{
		URLs:   []string{ts.URL},
		Client: ts.Client(),
		Config: types.HTTPConfig{UserAgent: "test-agent"},
		Now:    func() time.Time { return time.Date(2025, 11, 16, 8, 0, 0, 0, time.UTC) },
	}

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "Stocks Rally on Jobs Data", got[0].Title)
	assert.Equal(t, "Example Markets", got[0].Source)
	assert.Equal(t, "2025-11-15", got[0].Date)
	assert.Equal(t, "2025-11-16", got[1].Date, "items without a date use Now")
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.NoError(t, Validate(got))

	again, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got[0].ID, again[0].ID, "ids are stable across fetches")
}

func TestFeedsLoadPartialFailure(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, rssTemplate, "Good Feed")
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := &Feeds{URLs: []string{bad.URL, ok.URL}}
	got, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	f = &Feeds{URLs: []string{bad.URL}}
	_, err = f.Load(context.Background())
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Gold hits high", plainText("  Gold   hits\nhigh "))
	assert.Equal(t, "Gold hits high", plainText("<i>Gold</i> hits <b>high</b>"))
	assert.Equal(t, "S&P climbs", plainText("S&amp;P climbs"))
}
