package build

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// importDirective matches <!-- @import("other.md") --> inclusion comments.
var importDirective = regexp.MustCompile(`<!--\s*@import\(["']?([^"')]+)["']?\)\s*-->`)

// expandImports inlines @import directives recursively. Paths resolve
// relative to the importing file's directory. A file already on the
// inclusion path is skipped to break cycles; a missing file is replaced by
// nothing. Both cases warn and never fail the build. Byte-order marks in
// included files are stripped so they cannot corrupt link parsing in the
// combined document.
func expandImports(baseDir, content string, seen map[string]bool, warn func(string)) string {
	return importDirective.ReplaceAllStringFunc(content, func(directive string) string {
		rel := importDirective.FindStringSubmatch(directive)[1]
		path := filepath.Clean(filepath.Join(baseDir, rel))

		if seen[path] {
			warn(fmt.Sprintf("import cycle detected at %s, skipping", rel))
			return ""
		}

		data, err := os.ReadFile(path) // #nosec G304 -- path is under the user's book dir
		if err != nil {
			warn(fmt.Sprintf("import %s failed: %v", rel, err))
			return ""
		}

		seen[path] = true
		included := strings.ReplaceAll(string(data), "\uFEFF", "")
		included = expandImports(filepath.Dir(path), included, seen, warn)
		delete(seen, path)
		return included
	})
}
