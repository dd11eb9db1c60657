// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Report is a point-in-time export of the dashboard.
type Report struct {
	GeneratedAt time.Time                `json:"generated_at" yaml:"generated_at"`
	User        string                   `json:"user,omitempty" yaml:"user,omitempty"`
	Filter      string                   `json:"filter" yaml:"filter"`
	Search      string                   `json:"search,omitempty" yaml:"search,omitempty"`
	Articles    []types.AnnotatedArticle `json:"articles" yaml:"articles"`
	Trend       []types.TrendPoint       `json:"trend" yaml:"trend"`
	Saved       []types.SavedRecord      `json:"saved" yaml:"saved"`
}

// Report builds a Report of the articles matching the query. The trend
// always covers the whole catalog.
func (s *Session) Report(sentimentFilter, term string) (Report, error) {
	articles, err := s.Query(sentimentFilter, term)
	if err != nil {
		return Report{}, err
	}
	filter := strings.ToLower(strings.TrimSpace(sentimentFilter))
	if filter == "" {
		filter = "all"
	}

	saved := s.SavedRecords()
	if saved == nil {
		saved = []types.SavedRecord{}
	}

	return Report{
		GeneratedAt: s.now().UTC(),
		User:        s.UserID(),
		Filter:      filter,
		Search:      term,
		Articles:    articles,
		Trend:       s.Trend(),
		Saved:       saved,
	}, nil
}

// FormatFromPath picks the export format from a file extension, defaulting
// to YAML.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Encode marshals r in the given format.
func (r Report) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatYAML, "yml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown export format %q: use yaml or json", format)
	}
}

// Write encodes r to w.
func (r Report) Write(w io.Writer, format string) error {
	data, err := r.Encode(format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes r to path. An empty format is taken from the path's
// extension.
func (r Report) WriteFile(path, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	data, err := r.Encode(format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
