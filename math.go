package mdstudio

import (
	"bytes"
	"fmt"
	"strings"

	"git.sr.ht/~mekyt/latex2mathml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// mathMLNamespace is the XML namespace emitted on <math> elements.
const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// mathExtension typesets fenced ```math code blocks as MathML.
// Registered alongside GFM on the studio renderer.
type mathExtension struct{}

func (e mathExtension) Extend(markdown goldmark.Markdown) {
	markdown.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(mathTransformer{}, 100),
		),
	)
	markdown.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(mathRenderer{}, 100),
		),
	)
}

// mathBlock replaces a fenced code block whose language is "math".
type mathBlock struct {
	ast.BaseBlock
}

var mathBlockKind = ast.NewNodeKind("MathBlock")

var _ ast.Node = (*mathBlock)(nil)

func (n *mathBlock) Kind() ast.NodeKind {
	return mathBlockKind
}

func (n *mathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// mathTransformer swaps fenced math code blocks for mathBlock nodes so the
// renderer can typeset them instead of printing source.
type mathTransformer struct{}

var _ parser.ASTTransformer = mathTransformer{}

func (t mathTransformer) Transform(document *ast.Document, reader text.Reader, _ parser.Context) {
	var nodes []ast.Node
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !bytes.Equal(fenced.Language(reader.Source()), []byte("math")) {
			return ast.WalkContinue, nil
		}
		nodes = append(nodes, fenced)
		return ast.WalkContinue, nil
	})
	for _, node := range nodes {
		parent := node.Parent()
		if parent == nil {
			continue
		}
		block := &mathBlock{}
		block.SetLines(node.Lines())
		parent.ReplaceChild(parent, node, block)
	}
}

// mathRenderer writes a mathBlock as MathML inside a container div that
// carries the node's source-line annotation (goldmark's stock renderers do
// not emit attributes for custom kinds).
type mathRenderer struct{}

var _ renderer.NodeRenderer = mathRenderer{}

func (r mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(mathBlockKind, renderMathBlock)
}

func renderMathBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	block := node.(*mathBlock)
	lines := block.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}

	_, _ = w.WriteString(`<div class="math-block"`)
	if v, ok := node.AttributeString(sourceLineAttr); ok {
		_, _ = fmt.Fprintf(w, ` %s="%s"`, sourceLineAttr, v)
	}
	_, _ = w.WriteString(">")
	_, _ = w.WriteString(latex2mathml.Convert(b.String(), mathMLNamespace, "block", 2))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkContinue, nil
}
