package guidebook

import (
	"strings"

	"github.com/goccy/go-yaml"
)

// FrontMatter is the YAML metadata block at the top of a document.
type FrontMatter struct {
	Title       string
	Description string

	// Extra holds all fields, including title and description, for
	// template access.
	Extra map[string]any
}

// ParseFrontMatter splits a document into its leading YAML front matter and
// the remaining body. The block must start on the first line with "---" and
// end with a matching "---" line. Absent or malformed front matter degrades
// to an empty FrontMatter with the full content as body; never an error.
func ParseFrontMatter(content string) (FrontMatter, string) {
	var fm FrontMatter

	normalized := normalizeText(content)
	if !strings.HasPrefix(normalized, "---\n") && normalized != "---" {
		return fm, content
	}

	rest := strings.TrimPrefix(normalized, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, content
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	fields := make(map[string]any)
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return FrontMatter{}, content
	}

	fm.Extra = fields
	if v, ok := fields["title"].(string); ok {
		fm.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		fm.Description = v
	}
	return fm, body
}
