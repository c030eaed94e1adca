package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExpandImports(t *testing.T) {
	t.Parallel()

	noWarn := func(msg string) {}

	t.Run("simple inclusion", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"part.md": "included text",
		})
		got := expandImports(dir, `before <!-- @import("part.md") --> after`, map[string]bool{}, noWarn)
		if got != "before included text after" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("nested inclusion resolves relative to includer", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"sub/outer.md": `outer <!-- @import("inner.md") -->`,
			"sub/inner.md": "inner",
		})
		got := expandImports(dir, `<!-- @import("sub/outer.md") -->`, map[string]bool{}, noWarn)
		if got != "outer inner" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("cycle is broken with a warning", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"a.md": `A <!-- @import("b.md") -->`,
			"b.md": `B <!-- @import("a.md") -->`,
		})

		var warnings []string
		got := expandImports(dir, `<!-- @import("a.md") -->`, map[string]bool{}, func(msg string) {
			warnings = append(warnings, msg)
		})

		if !strings.Contains(got, "A") || !strings.Contains(got, "B") {
			t.Errorf("both files should appear once: %q", got)
		}
		if len(warnings) == 0 {
			t.Error("expected a cycle warning")
		}
	})

	t.Run("missing file warns and vanishes", func(t *testing.T) {
		t.Parallel()

		var warnings []string
		got := expandImports(t.TempDir(), `x <!-- @import("nope.md") --> y`, map[string]bool{}, func(msg string) {
			warnings = append(warnings, msg)
		})
		if got != "x  y" {
			t.Errorf("got %q", got)
		}
		if len(warnings) == 0 {
			t.Error("expected a warning")
		}
	})

	t.Run("bom stripped from included file", func(t *testing.T) {
		t.Parallel()

		dir := writeFiles(t, map[string]string{
			"part.md": "\uFEFFclean",
		})
		got := expandImports(dir, `<!-- @import("part.md") -->`, map[string]bool{}, noWarn)
		if got != "clean" {
			t.Errorf("got %q", got)
		}
	})
}
