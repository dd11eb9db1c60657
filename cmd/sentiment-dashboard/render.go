// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

const trendBarWidth = 40

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// idWidth sizes the id column so every id prints whole and can be passed
// back to save or remove.
func idWidth(ids []string) int {
	w := len("ID")
	for _, id := range ids {
		if n := utf8.RuneCountInString(id); n > w {
			w = n
		}
	}
	return w
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func renderHeadlines(w io.Writer, list []types.AnnotatedArticle) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No headlines match.")
		return
	}

	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	idw := idWidth(ids)

	fmt.Fprintf(w, "%-*s  %-8s  %-5s  %-5s  %-10s  %-18s  %s\n",
		idw, "ID", "Mood", "Score", "Saved", "Date", "Source", "Headline")
	fmt.Fprintln(w, strings.Repeat("-", idw+102))

	for _, a := range list {
		mark := ""
		if a.IsSaved {
			mark = "*"
		}
		fmt.Fprintf(w, "%-*s  %-8s  %5.3f  %-5s  %-10s  %-18s  %s\n",
			idw, a.ID, a.Sentiment, a.Score, mark, a.Date,
			truncate(a.Source, 18), truncate(a.Title, 60))
	}

	fmt.Fprintf(w, "\n%d headlines\n", len(list))
}

func renderTrend(w io.Writer, points []types.TrendPoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No trend data.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-4s  %s\n", "Date", "Avg", "")
	fmt.Fprintln(w, strings.Repeat("-", 18+trendBarWidth))
	for _, p := range points {
		bar := int(p.AvgSentiment*trendBarWidth + 0.5)
		fmt.Fprintf(w, "%-10s  %4.2f  %s\n", p.Date, p.AvgSentiment, strings.Repeat("#", bar))
	}
}

func renderSaved(w io.Writer, records []types.SavedRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No saved headlines.")
		return
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	idw := idWidth(ids)

	fmt.Fprintf(w, "%-*s  %-8s  %-5s  %-19s  %-18s  %s\n",
		idw, "ID", "Mood", "Score", "Saved at", "Source", "Headline")
	fmt.Fprintln(w, strings.Repeat("-", idw+102))
	for _, r := range records {
		fmt.Fprintf(w, "%-*s  %-8s  %5.3f  %-19s  %-18s  %s\n",
			idw, r.ID, r.Sentiment, r.SentimentScore,
			r.SavedAt.Local().Format(time.DateTime),
			truncate(r.Source, 18), truncate(r.Title, 60))
	}

	fmt.Fprintf(w, "\n%d saved\n", len(records))
}
