package guidebook

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Full-width space (U+3000) directly after heading markers
	fullwidthHeadingSpace = regexp.MustCompile("(?m)^([ \t]*#{1,6})　")

	// Footnote definition line: [^label]: content
	footnoteDefLine = regexp.MustCompile(`^\[\^([^\]]+)\]:[ \t]?(.*)$`)

	// Fenced code block delimiter (backticks or tildes)
	fencedCodeDelim = regexp.MustCompile("^[ \t]*(```|~~~)")

	// Header pattern (ATX style)
	atxHeadingLine = regexp.MustCompile(`^#{1,6}\s`)
)

// preprocess applies stages 1-2 of the rendering pipeline: encoding cleanup
// followed by repairs of common authoring mistakes. All repairs are
// heuristic and never fail; unparseable input passes through unchanged.
func preprocess(content string) string {
	content = normalizeText(content)
	content = repairHeadingSpaces(content)
	content = repairImagePaths(content)
	content = repairTableSeparators(content)
	content = indentFootnoteContinuations(content)
	return content
}

// normalizeText converts \r\n and \r to \n and strips byte-order-mark
// characters anywhere in the text. BOMs arrive mid-document through @import
// inclusion and corrupt reference link parsing if left in place.
func normalizeText(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return strings.ReplaceAll(content, "\uFEFF", "")
}

// repairHeadingSpaces replaces a full-width space directly after heading
// markers with an ordinary space ("##　見出し" → "## 見出し"), a common
// mistake in Japanese documents that hides the heading from the parser.
func repairHeadingSpaces(content string) string {
	return fullwidthHeadingSpace.ReplaceAllString(content, "$1 ")
}

// repairImagePaths wraps image targets containing literal spaces in angle
// brackets so the structural parser treats the target as a single token:
// ![alt](my file.png) → ![alt](<my file.png>).
func repairImagePaths(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	i := 0
	for i < len(content) {
		if content[i] != '!' || i+1 >= len(content) || content[i+1] != '[' {
			b.WriteByte(content[i])
			i++
			continue
		}

		// Potential image syntax: scan the bracketed alt text.
		altEnd := scanBrackets(content, i+1)
		if altEnd < 0 || altEnd >= len(content) || content[altEnd] != '(' {
			b.WriteByte(content[i])
			i++
			continue
		}

		urlEnd := scanParens(content, altEnd)
		if urlEnd < 0 {
			b.WriteByte(content[i])
			i++
			continue
		}

		url := content[altEnd+1 : urlEnd-1]
		b.WriteString(content[i : altEnd+1])
		if strings.Contains(url, " ") && !strings.HasPrefix(url, "<") {
			b.WriteByte('<')
			b.WriteString(url)
			b.WriteByte('>')
		} else {
			b.WriteString(url)
		}
		b.WriteByte(')')
		i = urlEnd
	}

	return b.String()
}

// scanBrackets scans a balanced [...] group starting at the opening bracket
// and returns the index just past the closing bracket, or -1.
func scanBrackets(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\n':
			return -1
		}
	}
	return -1
}

// scanParens scans a balanced (...) group starting at the opening paren and
// returns the index just past the closing paren, or -1.
func scanParens(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\n':
			return -1
		}
	}
	return -1
}

// repairTableSeparators regenerates a table separator row whose column count
// disagrees with the preceding header row. Alignment markers of existing
// columns are preserved; added columns default to left alignment.
func repairTableSeparators(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false

	for i := 1; i < len(lines); i++ {
		if fencedCodeDelim.MatchString(lines[i]) {
			inFence = !inFence
			continue
		}
		if inFence || !isTableSeparatorRow(lines[i]) {
			continue
		}
		header := lines[i-1]
		if !strings.Contains(header, "|") || isTableSeparatorRow(header) {
			continue
		}

		want := len(splitTableRow(header))
		specs := splitTableRow(lines[i])
		if want == 0 || len(specs) == want {
			continue
		}

		rebuilt := make([]string, want)
		for c := 0; c < want; c++ {
			if c < len(specs) {
				rebuilt[c] = strings.TrimSpace(specs[c])
			} else {
				rebuilt[c] = "---"
			}
		}
		lines[i] = "| " + strings.Join(rebuilt, " | ") + " |"
	}

	return strings.Join(lines, "\n")
}

// isTableSeparatorRow reports whether the line looks like |---|:---:|.
func isTableSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "-") || !strings.Contains(trimmed, "|") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitTableRow splits a table row into cells, dropping the empty cells
// produced by leading/trailing pipes.
func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	if strings.TrimSpace(trimmed) == "" {
		return nil
	}
	return strings.Split(trimmed, "|")
}

// indentFootnoteContinuations gives a uniform four-space indent to footnote
// continuation lines that lack one, so they parse as part of the footnote
// rather than as top-level content.
func indentFootnoteContinuations(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	inFootnote := false

	for i, line := range lines {
		if fencedCodeDelim.MatchString(line) {
			inFence = !inFence
			inFootnote = false
			continue
		}
		if inFence {
			continue
		}
		if footnoteDefLine.MatchString(line) {
			inFootnote = true
			continue
		}
		if !inFootnote {
			continue
		}
		if strings.TrimSpace(line) == "" || atxHeadingLine.MatchString(line) {
			inFootnote = false
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			lines[i] = "    " + line
		}
	}

	return strings.Join(lines, "\n")
}
