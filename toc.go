package guidebook

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// TocEntry is one table-of-contents row for a rendered document.
type TocEntry struct {
	Level int
	Text  string
	ID    string
}

var tocParser = goldmark.New(
	goldmark.WithParserOptions(parser.WithAttribute()),
)

// ExtractTOC collects the level 2 to 4 headings of a Markdown document in
// order, with the same ids the rendered HTML carries: an explicit {#id}
// attribute wins, otherwise the slug of the heading text. The document title
// (level 1) is excluded.
func ExtractTOC(content string) []TocEntry {
	source := []byte(preprocess(content))
	doc := tocParser.Parser().Parse(text.NewReader(source))

	var entries []TocEntry
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level < 2 || heading.Level > 4 {
			return ast.WalkContinue, nil
		}
		txt := headingText(heading, source)
		id := Slugify(txt)
		if v, exists := heading.AttributeString("id"); exists {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		entries = append(entries, TocEntry{Level: heading.Level, Text: txt, ID: id})
		return ast.WalkContinue, nil
	})
	return entries
}
