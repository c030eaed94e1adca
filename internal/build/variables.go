package build

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/guide-inc-org/guidebook"
)

var (
	bookVarPattern = regexp.MustCompile(`\{\{\s*book\.([A-Za-z0-9_][A-Za-z0-9_.-]*)\s*\}\}`)
	fenceDelim     = regexp.MustCompile("^[ \t]*(```|~~~)")
)

// expandVariables substitutes {{ book.key }} references with values from the
// config's variables map. References inside fenced code blocks or inline
// code spans are left untouched so documentation about the syntax itself
// stays literal. Unknown keys warn and keep the original text.
func expandVariables(content string, cfg *guidebook.Config, warn func(string)) string {
	if len(cfg.Variables) == 0 && !bookVarPattern.MatchString(content) {
		return content
	}

	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		if fenceDelim.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence || !strings.Contains(line, "{{") {
			continue
		}
		lines[i] = expandVariablesInLine(line, cfg, warn)
	}
	return strings.Join(lines, "\n")
}

// expandVariablesInLine substitutes references outside inline code spans.
// Splitting on backticks keeps odd segments (inside spans) literal.
func expandVariablesInLine(line string, cfg *guidebook.Config, warn func(string)) string {
	segments := strings.Split(line, "`")
	for i := 0; i < len(segments); i += 2 {
		segments[i] = bookVarPattern.ReplaceAllStringFunc(segments[i], func(ref string) string {
			key := bookVarPattern.FindStringSubmatch(ref)[1]
			if v, ok := cfg.Variable(key); ok {
				return v
			}
			warn(fmt.Sprintf("undefined variable book.%s", key))
			return ref
		})
	}
	return strings.Join(segments, "`")
}
