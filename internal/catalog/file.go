// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// File reads articles from a YAML or JSON file. The document is either a
// list of articles or a mapping with an "articles" list.
type File struct {
	Path string
}

func (f File) Name() string { return "file " + f.Path }

// Load parses the file. JSON is read through the YAML decoder.
func (f File) Load(ctx context.Context) ([]types.Article, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return parseArticles(data)
}

func parseArticles(data []byte) ([]types.Article, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	var articles []types.Article
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&articles); err != nil {
			return nil, fmt.Errorf("decoding article list: %w", err)
		}
	case yaml.MappingNode:
		var wrapped struct {
			Articles []types.Article `yaml:"articles"`
		}
		if err := doc.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decoding articles mapping: %w", err)
		}
		articles = wrapped.Articles
	default:
		return nil, fmt.Errorf("parsing catalog: expected a list or mapping at line %d", doc.Line)
	}
	return articles, nil
}
