package build

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/guide-inc-org/guidebook"
)

// BuildPrintHTML renders the whole book into one self-contained HTML
// document, in outline order, for PDF export. Missing chapters warn and are
// skipped, like the regular build.
func (b *Builder) BuildPrintHTML() (string, error) {
	bookDir := b.opts.BookDir

	cfg, err := guidebook.LoadConfig(bookDir)
	if err != nil {
		return "", err
	}

	summary, err := os.ReadFile(filepath.Join(bookDir, "SUMMARY.md"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: in %s", guidebook.ErrOutlineNotFound, bookDir)
		}
		return "", fmt.Errorf("reading SUMMARY.md: %w", err)
	}
	outline := guidebook.ParseOutline(string(summary))

	renderer := guidebook.NewRenderer(
		guidebook.WithHardbreaks(cfg.Hardbreaks),
		guidebook.WithWarnFunc(func(msg string) { b.warnf("%s", msg) }),
	)

	title := cfg.Title
	if title == "" {
		title = outline.Title
	}

	var body strings.Builder
	for _, ch := range collectChapters(outline) {
		if asciidocSource(ch.sourcePath) {
			b.warnf("chapter %s: asciidoc sources are not rendered, skipping", ch.sourcePath)
			continue
		}
		sourceFile := filepath.Join(bookDir, filepath.FromSlash(ch.sourcePath))
		data, err := os.ReadFile(sourceFile) // #nosec G304 -- path comes from the book's own SUMMARY.md
		if err != nil {
			b.warnf("chapter %s: %v", ch.sourcePath, err)
			continue
		}

		_, text := guidebook.ParseFrontMatter(string(data))
		text = expandImports(filepath.Dir(sourceFile), text, map[string]bool{sourceFile: true}, b.opts.Warn)
		text = expandTemplates(text, cfg, b.opts.Warn)
		text = expandVariables(text, cfg, b.opts.Warn)

		content, err := renderer.Render(text)
		if err != nil {
			b.warnf("chapter %s: %v", ch.sourcePath, err)
			continue
		}
		body.WriteString(`<section class="chapter">` + "\n")
		body.WriteString(content)
		body.WriteString("</section>\n")
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", html.EscapeString(title))
	doc.WriteString("<style>\n")
	doc.WriteString("body { font-family: serif; line-height: 1.6; max-width: 50rem; margin: 0 auto; }\n")
	doc.WriteString("section.chapter { page-break-before: always; }\n")
	doc.WriteString("section.chapter:first-child { page-break-before: avoid; }\n")
	doc.WriteString("pre { background: #f6f8fa; padding: 0.8rem; overflow-x: hidden; white-space: pre-wrap; }\n")
	doc.WriteString("</style>\n</head>\n<body>\n")
	doc.WriteString(body.String())
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}
