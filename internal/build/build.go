package build

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/guide-inc-org/guidebook"
	"github.com/guide-inc-org/guidebook/internal/assets"
)

// Options configures a build.
type Options struct {
	// BookDir is the directory holding SUMMARY.md and the chapter sources.
	BookDir string

	// OutDir receives the built site.
	OutDir string

	// Lang is set on sub-book builds of a multi-language book.
	Lang string

	// Warn receives non-fatal build warnings. Defaults to stderr.
	Warn func(msg string)
}

// Stats summarizes a finished build.
type Stats struct {
	Pages    int
	Warnings int
}

// Builder runs whole-book builds.
type Builder struct {
	opts Options

	warnings int
}

// New creates a Builder.
func New(opts Options) *Builder {
	if opts.Warn == nil {
		opts.Warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "  Warning: %s\n", msg)
		}
	}
	return &Builder{opts: opts}
}

func (b *Builder) warnf(format string, args ...any) {
	b.warnings++
	b.opts.Warn(fmt.Sprintf(format, args...))
}

// Build renders the book in BookDir into OutDir. A LANGS.md in the book root
// switches to a multi-language build: one sub-book per language plus a
// chooser page at the root.
func (b *Builder) Build() (*Stats, error) {
	langsSrc, err := os.ReadFile(filepath.Join(b.opts.BookDir, "LANGS.md"))
	if err == nil {
		return b.buildMultiLanguage(string(langsSrc))
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading LANGS.md: %w", err)
	}

	stats := &Stats{}
	if err := b.buildBook(b.opts.BookDir, b.opts.OutDir, b.opts.Lang, stats); err != nil {
		return nil, err
	}
	stats.Warnings = b.warnings
	return stats, nil
}

// buildMultiLanguage builds one sub-book per LANGS.md entry and a chooser
// page at the output root.
func (b *Builder) buildMultiLanguage(langsContent string) (*Stats, error) {
	langs := guidebook.ParseLanguages(langsContent)
	if len(langs) == 0 {
		return nil, fmt.Errorf("LANGS.md lists no languages")
	}

	stats := &Stats{}
	for _, lang := range langs {
		srcDir := filepath.Join(b.opts.BookDir, lang.Code)
		dstDir := filepath.Join(b.opts.OutDir, lang.Code)
		if err := b.buildBook(srcDir, dstDir, lang.Code, stats); err != nil {
			return nil, fmt.Errorf("building %s: %w", lang.Code, err)
		}
	}

	if err := b.writeLangsPage(langs); err != nil {
		return nil, err
	}
	if err := assets.WriteTheme(b.opts.OutDir); err != nil {
		return nil, err
	}
	stats.Pages++
	stats.Warnings = b.warnings
	return stats, nil
}

func (b *Builder) writeLangsPage(langs []guidebook.Language) error {
	cfg, err := guidebook.LoadConfig(b.opts.BookDir)
	if err != nil {
		return err
	}

	tmpl, err := newLangsTemplate()
	if err != nil {
		return err
	}

	title := cfg.Title
	if title == "" {
		title = "Languages"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, langsData{BookTitle: title, Languages: langs}); err != nil {
		return fmt.Errorf("rendering language chooser: %w", err)
	}

	if err := os.MkdirAll(b.opts.OutDir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.opts.OutDir, "index.html"), buf.Bytes(), 0o600)
}

// chapter is one outline link node scheduled for rendering.
type chapter struct {
	title      string
	sourcePath string
	outputPath string
}

// buildBook renders a single-language book from bookDir into outDir.
func (b *Builder) buildBook(bookDir, outDir, lang string, stats *Stats) error {
	cfg, err := guidebook.LoadConfig(bookDir)
	if err != nil {
		return err
	}

	summary, err := os.ReadFile(filepath.Join(bookDir, "SUMMARY.md"))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: in %s", guidebook.ErrOutlineNotFound, bookDir)
		}
		return fmt.Errorf("reading SUMMARY.md: %w", err)
	}
	outline := guidebook.ParseOutline(string(summary))

	glossary := b.loadGlossary(bookDir)
	renderer := guidebook.NewRenderer(
		guidebook.WithHardbreaks(cfg.Hardbreaks),
		guidebook.WithWarnFunc(func(msg string) { b.warnf("%s", msg) }),
	)

	tmpl, err := newPageTemplate()
	if err != nil {
		return err
	}

	bookTitle := cfg.Title
	if bookTitle == "" {
		bookTitle = outline.Title
	}

	sidebar := sidebarFromOutline(outline.Items)
	chapters := collectChapters(outline)

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return err
	}

	var searchEntries []SearchEntry
	for i := range chapters {
		entry, ok := b.buildChapter(chapterContext{
			bookDir:   bookDir,
			outDir:    outDir,
			lang:      lang,
			cfg:       cfg,
			renderer:  renderer,
			glossary:  glossary,
			tmpl:      tmpl,
			bookTitle: bookTitle,
			sidebar:   sidebar,
			chapters:  chapters,
			index:     i,
		})
		if !ok {
			continue
		}
		stats.Pages++
		searchEntries = append(searchEntries, entry)
	}

	if cfg.IsPluginEnabled("search") {
		if err := writeSearchIndex(outDir, searchEntries); err != nil {
			return err
		}
	}
	if err := assets.WriteTheme(outDir); err != nil {
		return err
	}
	if err := copyAssets(bookDir, outDir, cfg, b.opts.Warn); err != nil {
		return err
	}
	if cfg.ExternalizeSVG {
		if err := externalizeSVGs(outDir, b.opts.Warn); err != nil {
			return err
		}
	}
	if cfg.InlineSVG {
		if err := inlineSVGFiles(outDir); err != nil {
			return err
		}
	}
	if cfg.FetchRemoteImages {
		if err := fetchRemoteImages(outDir, b.opts.Warn); err != nil {
			return err
		}
	}
	return nil
}

// chapterContext bundles the per-book state each chapter build needs.
type chapterContext struct {
	bookDir   string
	outDir    string
	lang      string
	cfg       *guidebook.Config
	renderer  *guidebook.Renderer
	glossary  *guidebook.Glossary
	tmpl      *template.Template
	bookTitle string
	sidebar   []sidebarItem
	chapters  []chapter
	index     int
}

// buildChapter renders one chapter and writes its page. A missing source
// file warns and skips the chapter; the build continues.
func (b *Builder) buildChapter(ctx chapterContext) (SearchEntry, bool) {
	ch := ctx.chapters[ctx.index]
	if asciidocSource(ch.sourcePath) {
		b.warnf("chapter %s: asciidoc sources are not rendered, skipping", ch.sourcePath)
		return SearchEntry{}, false
	}

	sourceFile := filepath.Join(ctx.bookDir, filepath.FromSlash(ch.sourcePath))
	data, err := os.ReadFile(sourceFile) // #nosec G304 -- path comes from the book's own SUMMARY.md
	if err != nil {
		b.warnf("chapter %s: %v", ch.sourcePath, err)
		return SearchEntry{}, false
	}

	fm, body := guidebook.ParseFrontMatter(string(data))
	body = expandImports(filepath.Dir(sourceFile), body, map[string]bool{sourceFile: true}, b.opts.Warn)
	body = expandTemplates(body, ctx.cfg, b.opts.Warn)
	body = expandVariables(body, ctx.cfg, b.opts.Warn)

	content, err := ctx.renderer.RenderWithPath(body, ch.outputPath)
	if err != nil {
		b.warnf("chapter %s: %v", ch.sourcePath, err)
		return SearchEntry{}, false
	}
	if ctx.glossary != nil && ctx.cfg.IsPluginEnabled("glossary") {
		content = ctx.glossary.Annotate(content)
	}

	title := fm.Title
	if title == "" {
		title = ch.title
	}

	page, err := renderPage(ctx.tmpl, pageData{
		Lang:               langOrDefault(ctx.lang),
		BookTitle:          ctx.bookTitle,
		Title:              title,
		Description:        fm.Description,
		Content:            asHTML(content),
		Sidebar:            ctx.sidebar,
		TOC:                guidebook.ExtractTOC(body),
		Prev:               neighborLink(ctx.chapters, ctx.index, -1),
		Next:               neighborLink(ctx.chapters, ctx.index, +1),
		PathToRoot:         pathToRoot(ch.outputPath),
		CurrentPath:        ch.outputPath,
		CustomStyle:        ctx.cfg.WebsiteStyle(),
		SearchEnabled:      ctx.cfg.IsPluginEnabled("search"),
		MermaidEnabled:     ctx.cfg.IsPluginEnabled("mermaid"),
		CollapsibleEnabled: ctx.cfg.IsPluginEnabled("collapsible"),
	})
	if err != nil {
		b.warnf("chapter %s: %v", ch.sourcePath, err)
		return SearchEntry{}, false
	}

	outFile := filepath.Join(ctx.outDir, filepath.FromSlash(ch.outputPath))
	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		b.warnf("chapter %s: %v", ch.sourcePath, err)
		return SearchEntry{}, false
	}
	if err := os.WriteFile(outFile, page, 0o600); err != nil {
		b.warnf("chapter %s: %v", ch.sourcePath, err)
		return SearchEntry{}, false
	}

	return SearchEntry{
		Title:   title,
		Path:    ch.outputPath,
		Content: stripTags(content),
	}, true
}

// loadGlossary reads GLOSSARY.md when present. A missing glossary simply
// disables annotation.
func (b *Builder) loadGlossary(bookDir string) *guidebook.Glossary {
	data, err := os.ReadFile(filepath.Join(bookDir, "GLOSSARY.md"))
	if err != nil {
		if !os.IsNotExist(err) {
			b.warnf("reading GLOSSARY.md: %v", err)
		}
		return nil
	}
	return guidebook.ParseGlossary(string(data))
}

// collectChapters flattens the outline's linked nodes in reading order.
func collectChapters(outline *guidebook.Outline) []chapter {
	var chapters []chapter
	outline.Walk(func(n *guidebook.OutlineNode) {
		if n.Path == "" {
			return
		}
		chapters = append(chapters, chapter{
			title:      n.Title,
			sourcePath: n.Path,
			outputPath: guidebook.ToOutputPath(n.Path),
		})
	})
	return chapters
}

// neighborLink returns the prev (step -1) or next (step +1) chapter link.
func neighborLink(chapters []chapter, index, step int) *navLink {
	i := index + step
	if i < 0 || i >= len(chapters) {
		return nil
	}
	return &navLink{Title: chapters[i].title, Href: chapters[i].outputPath}
}

// asciidocSource reports whether a chapter source uses an AsciiDoc
// extension. Those chapters are linked in outlines but never rendered.
func asciidocSource(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".adoc") || strings.HasSuffix(lower, ".asciidoc")
}

func langOrDefault(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}
