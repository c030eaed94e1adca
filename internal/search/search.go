// Package search queries a built book's search index with full-text
// matching. The index is built in memory from the search_index.json a build
// writes, so queries need no separate indexing step.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/guide-inc-org/guidebook/internal/build"
)

// Result is one search hit.
type Result struct {
	Title string
	Path  string
	Score float64
}

// Index is an in-memory full-text index over a book's pages.
type Index struct {
	idx bleve.Index
}

// NewIndex indexes the given entries in memory.
func NewIndex(entries []build.SearchEntry) (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	for _, e := range entries {
		doc := map[string]string{
			"title":   e.Title,
			"content": e.Content,
			"path":    e.Path,
		}
		if err := idx.Index(e.Path, doc); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", e.Path, err)
		}
	}
	return &Index{idx: idx}, nil
}

// Open loads the search index of a built book from its output directory.
func Open(outDir string) (*Index, error) {
	entries, err := build.ReadSearchIndex(outDir)
	if err != nil {
		return nil, err
	}
	return NewIndex(entries)
}

// Close releases the index.
func (s *Index) Close() error {
	return s.idx.Close()
}

// Search returns up to max pages matching the query, best first.
func (s *Index) Search(query string, max int) ([]Result, error) {
	if max <= 0 {
		max = 10
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = max
	req.Fields = []string{"title", "path"}

	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := Result{Path: hit.ID, Score: hit.Score}
		if title, ok := hit.Fields["title"].(string); ok {
			r.Title = title
		}
		results = append(results, r)
	}
	return results, nil
}
