package guidebook

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// GlossaryTerm pairs a term with its definition text. Loaded once per book
// and shared read-only across all document renders.
type GlossaryTerm struct {
	Term       string
	Definition string
}

// Glossary annotates rendered HTML with term definitions. Immutable after
// construction; safe for concurrent use.
type Glossary struct {
	terms []GlossaryTerm
}

// Terms returns the glossary entries, longest term first.
func (g *Glossary) Terms() []GlossaryTerm { return g.terms }

// ParseGlossary parses GLOSSARY.md content. Each level-2 heading is a term
// and the blocks until the next heading are its definition; multi-line
// definitions are joined with spaces. Terms are ordered longest-first so a
// longer phrase is claimed before any of its substrings during annotation.
func ParseGlossary(content string) *Glossary {
	source := []byte(preprocess(content))
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	g := &Glossary{}
	var current *GlossaryTerm
	flush := func() {
		if current != nil && current.Term != "" {
			g.terms = append(g.terms, *current)
		}
		current = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			if heading.Level == 2 {
				flush()
				current = &GlossaryTerm{Term: nodeText(heading, source)}
			} else {
				flush()
			}
			continue
		}
		if current == nil {
			continue
		}
		if txt := nodeText(n, source); txt != "" {
			txt = strings.Join(strings.Fields(txt), " ")
			if current.Definition == "" {
				current.Definition = txt
			} else {
				current.Definition += " " + txt
			}
		}
	}
	flush()

	sort.SliceStable(g.terms, func(i, j int) bool {
		return len(g.terms[i].Term) > len(g.terms[j].Term)
	})
	return g
}

// glossaryExcludedTags are elements whose text never receives annotations.
var glossaryExcludedTags = map[string]bool{
	"code": true, "pre": true, "a": true, "script": true, "style": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

type openElement struct {
	name     string
	excluded bool
}

// Annotate wraps each occurrence of a glossary term found in the HTML text
// with a definition-carrying span. A single left-to-right scan maintains a
// stack of open elements with an exclude marker, so text inside code, pre,
// anchors, headings (h1 to h6, not elements like <header>), scripts,
// already-produced annotation spans and any element carrying the
// "no-glossary" class stays untouched regardless of nesting. A term matches
// only when bounded on both sides by non-word characters, where a word
// character is alphanumeric or any character above the ASCII range.
func (g *Glossary) Annotate(html string) string {
	if len(g.terms) == 0 {
		return html
	}

	var stack []openElement
	excludeDepth := 0

	var b strings.Builder
	b.Grow(len(html) + len(html)/4)

	i := 0
	for i < len(html) {
		if html[i] == '<' {
			gt := strings.IndexByte(html[i:], '>')
			if gt < 0 {
				b.WriteString(html[i:])
				break
			}
			tag := html[i : i+gt+1]
			b.WriteString(tag)
			i += gt + 1

			name, closing := parseTagName(tag)
			if name == "" || strings.HasSuffix(tag, "/>") || isVoidElement(name) {
				continue
			}
			if closing {
				// A closing tag with no open counterpart pops nothing,
				// so malformed raw HTML cannot end an exclusion early.
				match := -1
				for j := len(stack) - 1; j >= 0; j-- {
					if stack[j].name == name {
						match = j
						break
					}
				}
				if match < 0 {
					continue
				}
				for len(stack) > match {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					if top.excluded {
						excludeDepth--
					}
				}
				continue
			}
			excl := glossaryExcludedTags[name] ||
				strings.Contains(tag, "no-glossary") ||
				strings.Contains(tag, "glossary-term")
			stack = append(stack, openElement{name: name, excluded: excl})
			if excl {
				excludeDepth++
			}
			continue
		}

		end := strings.IndexByte(html[i:], '<')
		if end < 0 {
			end = len(html)
		} else {
			end += i
		}
		text := html[i:end]
		if excludeDepth > 0 {
			b.WriteString(text)
		} else {
			b.WriteString(g.annotateText(text))
		}
		i = end
	}
	return b.String()
}

// annotateText wraps term occurrences in one text node.
func (g *Glossary) annotateText(text string) string {
	var b strings.Builder
	i := 0
scan:
	for i < len(text) {
		for _, t := range g.terms {
			if !strings.HasPrefix(text[i:], t.Term) {
				continue
			}
			if !boundedBefore(text, i) || !boundedAfter(text, i+len(t.Term)) {
				continue
			}
			b.WriteString(`<span class="glossary-term" data-definition="`)
			b.WriteString(escapeAttribute(t.Definition))
			b.WriteString(`">`)
			b.WriteString(t.Term)
			b.WriteString(`</span>`)
			i += len(t.Term)
			continue scan
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c >= 0x80
}

func boundedBefore(text string, pos int) bool {
	return pos == 0 || !isWordByte(text[pos-1])
}

func boundedAfter(text string, pos int) bool {
	return pos >= len(text) || !isWordByte(text[pos])
}

func isVoidElement(name string) bool {
	switch name {
	case "br", "hr", "img", "input", "meta", "link", "source", "wbr", "col", "area", "base", "embed", "track", "param":
		return true
	}
	return false
}

// escapeAttribute escapes text for use inside a double-quoted HTML
// attribute value.
func escapeAttribute(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return strings.ReplaceAll(s, `"`, "&quot;")
}
