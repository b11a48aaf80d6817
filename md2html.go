package mdstudio

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark unchanged (no WithUnsafe needed) and are
// converted to <mark> tags after HTML generation.
const (
	markStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	markEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled patterns for preprocessing.
var (
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	highlightPattern = regexp.MustCompile(`==(.*?)==`)
)

// RenderResult is the output of one preview render pass.
type RenderResult struct {
	// HTML is the rendered fragment for the preview pane. Block elements
	// carry data-source-line attributes with their starting source line.
	HTML string
	// Lines are the annotated source lines, in document order. They feed
	// the position mapper's LineIndex and must be rebuilt every render.
	Lines []int
}

// previewRenderer abstracts Markdown rendering to allow test doubles.
type previewRenderer interface {
	Render(ctx context.Context, content string) (*RenderResult, error)
}

// goldmarkRenderer renders Markdown with GFM extensions, syntax
// highlighting, MathML typesetting and source-line annotations.
type goldmarkRenderer struct {
	md goldmark.Markdown
}

var _ previewRenderer = (*goldmarkRenderer)(nil)

// newGoldmarkRenderer creates the studio renderer.
func newGoldmarkRenderer() *goldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			mathExtension{},    // Fenced ```math blocks to MathML
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so themes control colors
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				// Runs after the math transformer so mathBlock nodes get
				// annotated too.
				util.Prioritized(lineAnnotator{}, 900),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithXHTML(),     // Self-closing tags
		),
	)
	return &goldmarkRenderer{md: md}
}

// Render converts Markdown content to an annotated HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (r *goldmarkRenderer) Render(ctx context.Context, content string) (*RenderResult, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		res *RenderResult
		err error
	}

	done := make(chan result, 1)

	go func() {
		source := []byte(preprocessMarkdown(content))
		pc := parser.NewContext()
		doc := r.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

		var buf bytes.Buffer
		if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}

		done <- result{res: &RenderResult{
			HTML:  convertMarkPlaceholders(buf.String()),
			Lines: annotatedLines(pc),
		}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.res, r.err
	}
}

// preprocessMarkdown normalizes content before parsing. Transformations
// must preserve line numbering: annotations map rendered nodes back to
// editor lines, so nothing here may add or remove lines.
func preprocessMarkdown(content string) string {
	content = normalizeLineEndings(content)
	content = convertHighlights(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// convertHighlights transforms ==text== to placeholder markers.
// The placeholders become <mark> tags after goldmark processing via
// convertMarkPlaceholders. This avoids needing html.WithUnsafe().
func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, markStartPlaceholder+"$1"+markEndPlaceholder)
}

// convertMarkPlaceholders converts placeholder markers to <mark> tags.
// Called after goldmark HTML conversion to finalize highlight markup.
func convertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, markStartPlaceholder, "<mark>"),
		markEndPlaceholder, "</mark>",
	)
}
