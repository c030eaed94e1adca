package guidebook

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Language is one entry of a multi-language book: a sub-directory holding a
// complete book plus a display title for the chooser page.
type Language struct {
	Code  string
	Title string
}

// ParseLanguages parses LANGS.md content. Every linked list item becomes a
// language; the link target (with slashes trimmed) is the sub-book
// directory. Items without a usable link are skipped.
func ParseLanguages(content string) []Language {
	source := []byte(normalizeText(content))
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var langs []Language
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.ListItem); !ok {
			return ast.WalkContinue, nil
		}
		link := firstLink(n)
		if link == nil {
			return ast.WalkContinue, nil
		}
		code := strings.Trim(normalizeOutlinePath(string(link.Destination)), "/")
		if code == "" {
			return ast.WalkSkipChildren, nil
		}
		langs = append(langs, Language{
			Code:  code,
			Title: nodeText(link, source),
		})
		return ast.WalkSkipChildren, nil
	})
	return langs
}
