package guidebook

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts a single Markdown document to an HTML fragment. A
// Renderer is safe for concurrent use after construction.
type Renderer struct {
	hardbreaks bool
	warn       func(msg string)
	md         goldmark.Markdown
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithHardbreaks makes single newlines render as <br> line breaks.
func WithHardbreaks(enabled bool) RendererOption {
	return func(r *Renderer) { r.hardbreaks = enabled }
}

// WithWarnFunc redirects non-fatal rendering warnings. The default writes
// them to stderr.
func WithWarnFunc(fn func(msg string)) RendererOption {
	return func(r *Renderer) { r.warn = fn }
}

// NewRenderer builds a Renderer with tables, strikethrough, task lists,
// syntax highlighting, mermaid diagram blocks, explicit {#id} heading
// attributes and automatic heading ids enabled.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		warn: func(msg string) {
			fmt.Fprintf(os.Stderr, "  Warning: %s\n", msg)
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	rendererOpts := []renderer.Option{html.WithUnsafe()}
	if r.hardbreaks {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	r.md = goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
			&diagramExtension{},
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
			parser.WithASTTransformers(headingIDTransformer),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return r
}

// Render converts Markdown content to an HTML fragment for a document at the
// book root. Equivalent to RenderWithPath(content, "").
func (r *Renderer) Render(content string) (string, error) {
	return r.RenderWithPath(content, "")
}

// RenderWithPath converts Markdown content to an HTML fragment for the
// document that will be written to outputPath (a book-root-relative path
// such as "guide/setup.html"). The path determines how internal links are
// rewritten. Conversion degrades on malformed constructs and warns instead
// of failing; the error covers only serialization problems.
func (r *Renderer) RenderWithPath(content, outputPath string) (string, error) {
	content = preprocess(content)

	refs := collectReferenceLinks(content)
	content = r.extractFootnoteDefinitions(content, refs)
	content = maskFootnoteReferences(content)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	out := restoreFootnoteReferences(buf.String())
	out = r.postprocess(out)
	out = resolveLinks(out, outputPath)
	return out, nil
}

// renderFragment converts a Markdown fragment (footnote continuations) to
// HTML without pre- or post-processing. Failures degrade to empty output.
func (r *Renderer) renderFragment(content string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		r.warnf("fragment conversion failed: %v", err)
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// renderInline converts one line of Markdown and unwraps the enclosing
// paragraph, for text that must land inside an existing block element.
func (r *Renderer) renderInline(content string) string {
	out := r.renderFragment(content)
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return strings.TrimSpace(out)
}

func (r *Renderer) warnf(format string, args ...any) {
	if r.warn != nil {
		r.warn(fmt.Sprintf(format, args...))
	}
}
