package guidebook

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	hrefAttr    = regexp.MustCompile(`href="([^"]*)"`)
	hrefSrcAttr = regexp.MustCompile(`(href|src)="([^"]*)"`)
	anchorTag   = regexp.MustCompile(`<a\s([^>]*)>`)
	rawImage    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

	markdownExt = regexp.MustCompile(`\.(?:md|adoc|asciidoc)(#[^"]*)?$`)
)

// postprocess applies the HTML-level rewrites that run after Markdown
// conversion: link extension rewriting, bare URL autolinking, external link
// attributes, leftover raw image syntax, path separator normalization.
// Order matters: autolinking must precede the external-attribute pass so
// generated anchors are covered, and raw image conversion must follow
// autolinking so image URLs are not half-linked first.
func (r *Renderer) postprocess(content string) string {
	content = rewriteMarkdownLinks(content)
	content = autolinkURLs(content)
	content = addExternalLinkAttrs(content)
	content = convertRawImages(content)
	content = normalizePathSeparators(content)
	return content
}

// isExternalURL reports whether the target leaves the book.
func isExternalURL(url string) bool {
	return strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "//") ||
		strings.HasPrefix(url, "mailto:")
}

// rewriteMarkdownLinks changes the extension of internal hrefs pointing at
// Markdown or AsciiDoc sources to .html, preserving any fragment. External
// URLs are untouched even when they end in .md.
func rewriteMarkdownLinks(content string) string {
	return hrefAttr.ReplaceAllStringFunc(content, func(attr string) string {
		url := hrefAttr.FindStringSubmatch(attr)[1]
		if isExternalURL(url) {
			return attr
		}
		path, fragment, _ := strings.Cut(url, "#")
		if !markdownExt.MatchString(path) {
			return attr
		}
		path = markdownExt.ReplaceAllString(path, ".html")
		if fragment != "" {
			path += "#" + fragment
		}
		return `href="` + path + `"`
	})
}

// replaceOutsideTags applies fn to every text node of the HTML fragment that
// is not inside one of the named container elements. Tags themselves are
// never modified. Nesting of containers is tracked with a depth counter per
// tag name; void or unbalanced markup degrades to "inside" which only makes
// the pass more conservative.
func replaceOutsideTags(content string, skip []string, fn func(text string) string) string {
	depth := make(map[string]int, len(skip))
	skipSet := make(map[string]bool, len(skip))
	for _, tag := range skip {
		skipSet[tag] = true
	}
	inside := func() bool {
		for _, d := range depth {
			if d > 0 {
				return true
			}
		}
		return false
	}

	var b strings.Builder
	b.Grow(len(content))
	i := 0
	for i < len(content) {
		lt := strings.IndexByte(content[i:], '<')
		if lt < 0 {
			text := content[i:]
			if inside() {
				b.WriteString(text)
			} else {
				b.WriteString(fn(text))
			}
			break
		}
		if lt > 0 {
			text := content[i : i+lt]
			if inside() {
				b.WriteString(text)
			} else {
				b.WriteString(fn(text))
			}
		}
		i += lt

		gt := strings.IndexByte(content[i:], '>')
		if gt < 0 {
			b.WriteString(content[i:])
			break
		}
		tag := content[i : i+gt+1]
		b.WriteString(tag)
		i += gt + 1

		name, closing := parseTagName(tag)
		if !skipSet[name] {
			continue
		}
		if closing {
			if depth[name] > 0 {
				depth[name]--
			}
		} else if !strings.HasSuffix(tag, "/>") {
			depth[name]++
		}
	}
	return b.String()
}

// parseTagName extracts the lowercase element name from a raw tag and
// whether it is a closing tag. Comments and doctypes yield an empty name.
func parseTagName(tag string) (name string, closing bool) {
	inner := strings.TrimPrefix(tag, "<")
	inner = strings.TrimSuffix(inner, ">")
	if strings.HasPrefix(inner, "/") {
		closing = true
		inner = inner[1:]
	}
	end := 0
	for end < len(inner) {
		c := inner[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			end++
			continue
		}
		break
	}
	return strings.ToLower(inner[:end]), closing
}

// urlTrailingPunct holds characters trimmed from the end of an autolinked
// URL so sentence punctuation stays outside the anchor.
const urlTrailingPunct = ".,;:!?\"')]}"

// autolinkURLs wraps bare http(s) URLs in anchor tags. URLs already inside
// anchors or code regions are left alone.
func autolinkURLs(content string) string {
	return replaceOutsideTags(content, []string{"a", "code", "pre"}, func(text string) string {
		var b strings.Builder
		i := 0
		for i < len(text) {
			start := indexURLStart(text[i:])
			if start < 0 {
				b.WriteString(text[i:])
				break
			}
			b.WriteString(text[i : i+start])
			i += start

			end := i
			for end < len(text) && !isURLStop(text[end]) {
				end++
			}
			url := strings.TrimRight(text[i:end], urlTrailingPunct)
			fmt.Fprintf(&b, `<a href="%s">%s</a>`, url, url)
			b.WriteString(text[i+len(url) : end])
			i = end
		}
		return b.String()
	})
}

func indexURLStart(s string) int {
	h := strings.Index(s, "http://")
	hs := strings.Index(s, "https://")
	switch {
	case h < 0:
		return hs
	case hs < 0:
		return h
	case hs < h:
		return hs
	default:
		return h
	}
}

func isURLStop(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '<' || c == '"'
}

// addExternalLinkAttrs adds target="_blank" rel="noopener" to external
// anchors that do not already declare a target.
func addExternalLinkAttrs(content string) string {
	return anchorTag.ReplaceAllStringFunc(content, func(tag string) string {
		m := hrefAttr.FindStringSubmatch(tag)
		if m == nil || !isExternalURL(m[1]) {
			return tag
		}
		if strings.Contains(tag, "target=") {
			return tag
		}
		return strings.TrimSuffix(tag, ">") + ` target="_blank" rel="noopener">`
	})
}

// convertRawImages turns leftover Markdown image syntax in text nodes into
// img elements. Raw syntax survives conversion when it was produced by a
// variable expansion or arrived through an HTML block.
func convertRawImages(content string) string {
	return replaceOutsideTags(content, []string{"code", "pre"}, func(text string) string {
		return rawImage.ReplaceAllStringFunc(text, func(img string) string {
			m := rawImage.FindStringSubmatch(img)
			src := strings.TrimSpace(m[2])
			src = strings.TrimPrefix(src, "<")
			src = strings.TrimSuffix(src, ">")
			return fmt.Sprintf(`<img src="%s" alt="%s" />`,
				html.EscapeString(src), html.EscapeString(m[1]))
		})
	})
}

// normalizePathSeparators replaces backslashes with forward slashes inside
// href and src values, for books authored on Windows.
func normalizePathSeparators(content string) string {
	return hrefSrcAttr.ReplaceAllStringFunc(content, func(attr string) string {
		if !strings.Contains(attr, `\`) {
			return attr
		}
		return strings.ReplaceAll(attr, `\`, "/")
	})
}
