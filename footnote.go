package guidebook

import (
	"fmt"
	"regexp"
	"strings"
)

// footnotePlaceholder is the opaque token prefix used to hide footnote
// reference markers from the structural parser. The token survives Markdown
// conversion untouched and is substituted with final anchor markup after the
// whole document has been converted to HTML.
const (
	footnotePlaceholderOpen  = "@@GBFNREF@@"
	footnotePlaceholderClose = "@@"
)

var (
	// Footnote reference marker [^label] (definitions excluded by position)
	footnoteRefPattern = regexp.MustCompile(`\[\^([^\]]+)\]`)

	// Reference link definition line: [label]: url
	referenceLinkDef = regexp.MustCompile(`^[ \t]{0,3}\[([^\^\]][^\]]*)\]:[ \t]*(\S+)[ \t]*$`)

	// Placeholder restoration. The label match is lazy so it ends at the
	// first closing marker; labels may themselves contain "@".
	footnotePlaceholderPattern = regexp.MustCompile(`@@GBFNREF@@(.+?)@@`)
)

// footnoteDefinition is a single extracted definition: the first line plus an
// optional continuation block. Scoped to one render call.
type footnoteDefinition struct {
	label        string
	firstLine    string
	continuation []string
}

// collectReferenceLinks builds the document's reference-link table mapping
// lowercase label to URL from all "[label]: url" definitions. The table only
// resolves links inside footnote text; the structural parser handles every
// other reference link itself.
func collectReferenceLinks(content string) map[string]string {
	refs := make(map[string]string)
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if fencedCodeDelim.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := referenceLinkDef.FindStringSubmatch(line); m != nil {
			refs[strings.ToLower(m[1])] = m[2]
		}
	}
	return refs
}

// extractFootnoteDefinitions replaces every footnote definition with its
// two-part HTML reconstruction at the same document position: an inline block
// carrying the label, the reference-resolved first line and a jump-back link,
// followed by the continuation block rendered on its own. Runs before
// structural parsing so the generic parser never sees definition syntax.
func (r *Renderer) extractFootnoteDefinitions(content string, refs map[string]string) string {
	lines := strings.Split(content, "\n")
	var out []string
	inFence := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if fencedCodeDelim.MatchString(line) {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		m := footnoteDefLine.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}

		def := footnoteDefinition{label: m[1], firstLine: m[2]}

		// Consume immediately-following non-blank, non-heading,
		// non-new-footnote lines as the continuation block.
		for i+1 < len(lines) {
			next := lines[i+1]
			if strings.TrimSpace(next) == "" ||
				atxHeadingLine.MatchString(next) ||
				footnoteDefLine.MatchString(next) {
				break
			}
			def.continuation = append(def.continuation, dedentContinuation(next))
			i++
		}

		out = append(out, "", r.renderFootnoteDefinition(def, refs), "")
	}

	return strings.Join(out, "\n")
}

// renderFootnoteDefinition produces the raw HTML block for one definition.
func (r *Renderer) renderFootnoteDefinition(def footnoteDefinition, refs map[string]string) string {
	first := r.resolveReferenceLinks(def.firstLine, refs)
	firstHTML := r.renderInline(first)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="footnote-definition" id="fn_%s"><sup class="footnote-definition-label">%s</sup> %s <a href="#reffn_%s" class="footnote-backref">↩</a></div>`,
		def.label, def.label, firstHTML, def.label)

	if len(def.continuation) > 0 {
		contHTML := r.renderFragment(strings.Join(def.continuation, "\n"))
		if contHTML != "" {
			b.WriteByte('\n')
			b.WriteString(contHTML)
		}
	}

	// The block is injected back into Markdown as a raw HTML block, which
	// ends at the first blank line; collapse any internal blank lines.
	return collapseBlankLines(b.String())
}

// dedentContinuation strips the uniform indent added by the stage-2 repair
// (or authored by hand) from one continuation line.
func dedentContinuation(line string) string {
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	for i := 0; i < 4; i++ {
		if !strings.HasPrefix(line, " ") {
			break
		}
		line = line[1:]
	}
	return line
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n") {
		s = strings.ReplaceAll(s, "\n\n", "\n")
	}
	return strings.TrimRight(s, "\n")
}

// resolveReferenceLinks rewrites reference link usages in footnote text to
// inline links using the document's reference-link table: [text][label],
// collapsed [text][] and shortcut [label] forms. An unresolvable label is
// left as literal text and logged; never fatal.
func (r *Renderer) resolveReferenceLinks(text string, refs map[string]string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		if text[i] != '[' || (i > 0 && text[i-1] == '!') {
			b.WriteByte(text[i])
			i++
			continue
		}

		end := scanBrackets(text, i)
		if end < 0 {
			b.WriteByte(text[i])
			i++
			continue
		}
		inner := text[i+1 : end-1]

		// Inline link [text](url): not a reference, pass through whole.
		if end < len(text) && text[end] == '(' {
			b.WriteString(text[i:end])
			i = end
			continue
		}

		// Full or collapsed reference: [text][label] / [text][].
		if end < len(text) && text[end] == '[' {
			labelEnd := scanBrackets(text, end)
			if labelEnd < 0 {
				b.WriteString(text[i:end])
				i = end
				continue
			}
			label := text[end+1 : labelEnd-1]
			if label == "" {
				label = inner
			}
			if url, ok := refs[strings.ToLower(label)]; ok {
				fmt.Fprintf(&b, "[%s](%s)", inner, url)
			} else {
				r.warnf("footnote reference label not found: %s", label)
				b.WriteString(text[i:labelEnd])
			}
			i = labelEnd
			continue
		}

		// Shortcut reference: [label].
		if url, ok := refs[strings.ToLower(inner)]; ok {
			fmt.Fprintf(&b, "[%s](%s)", inner, url)
		} else {
			b.WriteString(text[i:end])
		}
		i = end
	}
	return b.String()
}

// maskFootnoteReferences converts footnote reference markers [^label] to
// opaque placeholders before structural parsing. Without this the generic
// parser mis-reads adjacent reference-link syntax as part of the footnote
// token. Definition lines have already been extracted by stage 3.
func maskFootnoteReferences(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		if fencedCodeDelim.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = footnoteRefPattern.ReplaceAllString(line,
			footnotePlaceholderOpen+"$1"+footnotePlaceholderClose)
	}
	return strings.Join(lines, "\n")
}

// restoreFootnoteReferences substitutes placeholders with final anchor
// markup once the whole document has been converted to HTML.
func restoreFootnoteReferences(html string) string {
	return footnotePlaceholderPattern.ReplaceAllString(html,
		`<sup><a href="#fn_$1" id="reffn_$1">$1</a></sup>`)
}
