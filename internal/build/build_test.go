package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readBuiltFile(t *testing.T, outDir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func TestBuildSingleBook(t *testing.T) {
	t.Parallel()

	bookDir := writeFiles(t, map[string]string{
		"book.yaml": "title: Test Book\nvariables:\n  version: \"2.0\"\n",
		"SUMMARY.md": `# Test Book

- [Introduction](README.md)
- [Setup](guide/setup.md)
`,
		"README.md":      "# Welcome\n\nThis is version {{ book.version }}.\n",
		"guide/setup.md": "# Setup\n\nRun the install step. See [intro](/index.html) and https://example.com.\n",
		"GLOSSARY.md":    "# Glossary\n\n## install\n\nTo put software in place.\n",
		"assets/a.txt":   "asset",
	})
	outDir := t.TempDir()

	var warnings []string
	stats, err := New(Options{
		BookDir: bookDir,
		OutDir:  outDir,
		Warn:    func(msg string) { warnings = append(warnings, msg) },
	}).Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if stats.Pages != 2 {
		t.Errorf("Pages = %d, want 2", stats.Pages)
	}

	index := readBuiltFile(t, outDir, "index.html")
	for _, want := range []string{
		"Test Book",
		"This is version 2.0.",
		`href="guide/setup.html"`,
	} {
		if !strings.Contains(index, want) {
			t.Errorf("index.html should contain %q", want)
		}
	}

	setup := readBuiltFile(t, outDir, "guide/setup.html")
	for _, want := range []string{
		// depth-1 page: root-relative link gets one hop
		`href="../index.html"`,
		// autolinked external URL
		`<a href="https://example.com"`,
		// glossary annotation outside headings
		"glossary-term",
		// theme reference goes through the ../ prefix
		`href="../gitbook/gitbook.css"`,
		// prev/next navigation
		"nav-prev",
	} {
		if !strings.Contains(setup, want) {
			t.Errorf("guide/setup.html should contain %q", want)
		}
	}

	if _, err := os.Stat(filepath.Join(outDir, "search_index.json")); err != nil {
		t.Errorf("search index missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "gitbook", "gitbook.css")); err != nil {
		t.Errorf("theme missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "assets", "a.txt")); err != nil {
		t.Errorf("asset not copied: %v", err)
	}
}

func TestBuildMissingChapterWarnsAndContinues(t *testing.T) {
	t.Parallel()

	bookDir := writeFiles(t, map[string]string{
		"SUMMARY.md": "- [Here](here.md)\n- [Gone](gone.md)\n",
		"here.md":    "# Here\n",
	})
	outDir := t.TempDir()

	var warnings []string
	stats, err := New(Options{
		BookDir: bookDir,
		OutDir:  outDir,
		Warn:    func(msg string) { warnings = append(warnings, msg) },
	}).Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if stats.Pages != 1 {
		t.Errorf("Pages = %d, want 1", stats.Pages)
	}
	if stats.Warnings == 0 || len(warnings) == 0 {
		t.Error("expected a warning for the missing chapter")
	}
	if _, err := os.Stat(filepath.Join(outDir, "here.html")); err != nil {
		t.Errorf("surviving chapter missing: %v", err)
	}
}

func TestBuildSkipsAsciidocChapters(t *testing.T) {
	t.Parallel()

	bookDir := writeFiles(t, map[string]string{
		"SUMMARY.md":  "- [Home](README.md)\n- [Legacy](legacy.adoc)\n",
		"README.md":   "# Home\n",
		"legacy.adoc": "= Legacy\n",
	})
	outDir := t.TempDir()

	var warnings []string
	stats, err := New(Options{
		BookDir: bookDir,
		OutDir:  outDir,
		Warn:    func(msg string) { warnings = append(warnings, msg) },
	}).Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if stats.Pages != 1 {
		t.Errorf("Pages = %d, want 1", stats.Pages)
	}
	if len(warnings) == 0 || !strings.Contains(warnings[0], "asciidoc") {
		t.Errorf("warnings = %v, want an asciidoc skip warning", warnings)
	}
	if _, err := os.Stat(filepath.Join(outDir, "legacy.html")); err == nil {
		t.Error("asciidoc chapter should not produce a page")
	}
}

func TestBuildMissingSummaryFails(t *testing.T) {
	t.Parallel()

	_, err := New(Options{
		BookDir: t.TempDir(),
		OutDir:  t.TempDir(),
		Warn:    func(string) {},
	}).Build()
	if err == nil {
		t.Fatal("Build() should fail without SUMMARY.md")
	}
}

func TestBuildMultiLanguage(t *testing.T) {
	t.Parallel()

	bookDir := writeFiles(t, map[string]string{
		"book.yaml":     "title: Multi\n",
		"LANGS.md":      "- [English](en/)\n- [日本語](ja/)\n",
		"en/SUMMARY.md": "- [Home](README.md)\n",
		"en/README.md":  "# English\n",
		"ja/SUMMARY.md": "- [Home](README.md)\n",
		"ja/README.md":  "# 日本語\n",
	})
	outDir := t.TempDir()

	stats, err := New(Options{
		BookDir: bookDir,
		OutDir:  outDir,
		Warn:    func(string) {},
	}).Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	// two sub-book pages plus the chooser
	if stats.Pages != 3 {
		t.Errorf("Pages = %d, want 3", stats.Pages)
	}

	chooser := readBuiltFile(t, outDir, "index.html")
	for _, want := range []string{`href="en/index.html"`, `href="ja/index.html"`, "日本語"} {
		if !strings.Contains(chooser, want) {
			t.Errorf("chooser should contain %q", want)
		}
	}

	if _, err := os.Stat(filepath.Join(outDir, "en", "index.html")); err != nil {
		t.Errorf("english sub-book missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ja", "index.html")); err != nil {
		t.Errorf("japanese sub-book missing: %v", err)
	}
}

func TestBuildIgnoresConfiguredAssets(t *testing.T) {
	t.Parallel()

	bookDir := writeFiles(t, map[string]string{
		"book.yaml":         "ignores:\n  - \"assets/**/*.psd\"\n",
		"SUMMARY.md":        "- [Home](README.md)\n",
		"README.md":         "# Home\n",
		"assets/keep.png":   "png",
		"assets/source.psd": "psd",
	})
	outDir := t.TempDir()

	if _, err := New(Options{BookDir: bookDir, OutDir: outDir, Warn: func(string) {}}).Build(); err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "assets", "keep.png")); err != nil {
		t.Errorf("kept asset missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "assets", "source.psd")); err == nil {
		t.Error("ignored asset should not be copied")
	}
}
