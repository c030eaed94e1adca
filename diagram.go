package guidebook

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// diagramBlock replaces a fenced code block whose info string is "mermaid".
// The diagram source is emitted verbatim inside a div for the client-side
// renderer, instead of being syntax highlighted.
type diagramBlock struct {
	ast.BaseBlock
	source []byte
}

var kindDiagramBlock = ast.NewNodeKind("DiagramBlock")

func (n *diagramBlock) Kind() ast.NodeKind { return kindDiagramBlock }

func (n *diagramBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// diagramTransformer rewrites mermaid fenced code blocks into diagramBlock
// nodes before the highlighting renderer sees them.
type diagramTransformer struct{}

func (t *diagramTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var blocks []*ast.FencedCodeBlock

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(fcb.Language(source)) == "mermaid" {
			blocks = append(blocks, fcb)
		}
		return ast.WalkContinue, nil
	})

	for _, fcb := range blocks {
		var buf []byte
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			buf = append(buf, seg.Value(source)...)
		}
		replacement := &diagramBlock{source: buf}
		fcb.Parent().ReplaceChild(fcb.Parent(), fcb, replacement)
	}
}

// diagramRenderer writes the diagram div. Content is escaped so diagram
// syntax containing angle brackets cannot inject markup.
type diagramRenderer struct{}

func (r *diagramRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindDiagramBlock, r.render)
}

func (r *diagramRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*diagramBlock)
	_, _ = w.WriteString(`<div class="mermaid">`)
	_, _ = w.Write(util.EscapeHTML(n.source))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkContinue, nil
}

// diagramExtension wires the transformer and renderer into goldmark.
type diagramExtension struct{}

func (e *diagramExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&diagramTransformer{}, 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&diagramRenderer{}, 50),
	))
}
