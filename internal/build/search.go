package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// SearchIndexName is the search index file written into the output root.
const SearchIndexName = "search_index.json"

// SearchEntry is one indexed page.
type SearchEntry struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// stripTags extracts the visible text of an HTML fragment. Script and style
// bodies are dropped; runs of whitespace collapse to single spaces.
func stripTags(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if n := string(name); n == "script" || n == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if n := string(name); (n == "script" || n == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// writeSearchIndex writes the entries as search_index.json in outDir.
func writeSearchIndex(outDir string, entries []SearchEntry) error {
	if entries == nil {
		entries = []SearchEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding search index: %w", err)
	}
	path := filepath.Join(outDir, SearchIndexName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing search index: %w", err)
	}
	return nil
}

// ReadSearchIndex loads a search index written by a previous build.
func ReadSearchIndex(outDir string) ([]SearchEntry, error) {
	data, err := os.ReadFile(filepath.Join(outDir, SearchIndexName)) // #nosec G304 -- path is under the build output dir
	if err != nil {
		return nil, fmt.Errorf("reading search index: %w", err)
	}
	var entries []SearchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding search index: %w", err)
	}
	return entries, nil
}
