package guidebook

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// OutlineNodeKind discriminates the outline node variants.
type OutlineNodeKind int

// Outline node variants.
const (
	OutlineLink OutlineNodeKind = iota
	OutlineSeparator
	OutlinePartTitle
)

// OutlineNode is one entry of the book outline. A Link node with an empty
// Path is a label-only entry that groups its children under a heading-like
// label. Children preserve declaration order.
type OutlineNode struct {
	Kind     OutlineNodeKind
	Title    string
	Path     string
	Children []OutlineNode
}

// Outline is the navigational tree of a book, parsed from SUMMARY.md.
// It is immutable after construction.
type Outline struct {
	Title string
	Items []OutlineNode
}

// Walk visits every link node of the outline depth-first in declaration
// order. Separators and part titles are skipped.
func (o *Outline) Walk(fn func(node *OutlineNode)) {
	walkOutlineNodes(o.Items, fn)
}

func walkOutlineNodes(items []OutlineNode, fn func(node *OutlineNode)) {
	for i := range items {
		if items[i].Kind != OutlineLink {
			continue
		}
		fn(&items[i])
		walkOutlineNodes(items[i].Children, fn)
	}
}

// ParseOutline parses SUMMARY.md content into an Outline.
//
// Hierarchy is derived from goldmark's own block structure (headings, lists,
// list nesting) rather than indentation columns, so 2-space, 4-space, tab and
// mixed indentation all produce the same tree. A single top-level heading
// becomes the outline title, h2/h3 headings become part titles, horizontal
// rules become separators, and list items become links. Items with no
// parseable link or text are skipped; parsing never aborts.
func ParseOutline(content string) *Outline {
	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	out := &Outline{}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			switch node.Level {
			case 1:
				out.Title = nodeText(node, source)
			case 2, 3:
				if firstLink(node) == nil {
					out.Items = append(out.Items, OutlineNode{
						Kind:  OutlinePartTitle,
						Title: nodeText(node, source),
					})
				}
			}
		case *ast.ThematicBreak:
			out.Items = append(out.Items, OutlineNode{Kind: OutlineSeparator})
		case *ast.List:
			out.Items = append(out.Items, parseOutlineList(node, source)...)
		}
	}
	return out
}

func parseOutlineList(list ast.Node, source []byte) []OutlineNode {
	var items []OutlineNode
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		if item, ok := parseOutlineItem(li, source); ok {
			items = append(items, item)
		}
	}
	return items
}

// parseOutlineItem extracts a Link node from a single list item. Nested
// lists are parsed recursively and attached as fully-collected children, so
// grandchildren are never lost to partially-built subtrees.
func parseOutlineItem(li ast.Node, source []byte) (OutlineNode, bool) {
	item := OutlineNode{Kind: OutlineLink}
	found := false

	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		if nested, ok := c.(*ast.List); ok {
			item.Children = append(item.Children, parseOutlineList(nested, source)...)
			continue
		}
		if found {
			continue
		}
		if link := firstLink(c); link != nil {
			item.Title = nodeText(link, source)
			item.Path = normalizeOutlinePath(string(link.Destination))
			found = true
		} else if txt := nodeText(c, source); txt != "" {
			// Plain text item: a grouping label with no target.
			item.Title = txt
			found = true
		}
	}

	if !found {
		return OutlineNode{}, false
	}
	return item, true
}

// normalizeOutlinePath strips leading "./" segments; an empty or "#"-only
// target means the entry is a label without its own page.
func normalizeOutlinePath(path string) string {
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	if path == "" || path == "#" {
		return ""
	}
	return path
}

// firstLink returns the first link found among the node's descendants.
func firstLink(n ast.Node) *ast.Link {
	var link *ast.Link
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if l, ok := c.(*ast.Link); ok {
			link = l
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return link
}

// nodeText collects the plain text content of a node's subtree.
func nodeText(n ast.Node, source []byte) string {
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
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
