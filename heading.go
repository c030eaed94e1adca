package guidebook

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// headingIDs assigns an id attribute to every heading that does not already
// carry one from explicit {#id} attribute syntax. The id is the slug of the
// heading's visible text. Duplicate slugs are kept as-is; anchors then target
// the first occurrence.
type headingIDs struct{}

func (t *headingIDs) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if _, exists := heading.AttributeString("id"); exists {
			return ast.WalkContinue, nil
		}
		if slug := Slugify(headingText(heading, source)); slug != "" {
			heading.SetAttributeString("id", []byte(slug))
		}
		return ast.WalkContinue, nil
	})
}

var headingIDTransformer = util.Prioritized(&headingIDs{}, 100)

// headingText collects the rendered text of a heading, including text inside
// inline code spans, so slugs match what the reader sees.
func headingText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		case *ast.CodeSpan:
			for cs := t.FirstChild(); cs != nil; cs = cs.NextSibling() {
				if txt, ok := cs.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
