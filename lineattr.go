package mdstudio

import (
	"sort"
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// sourceLineAttr is the attribute carrying the 1-based source line at which
// a rendered block began. It is a render-pass-scoped annotation consumed by
// the position mapper; node identities are not stable across renders, so it
// is recomputed on every parse.
const sourceLineAttr = "data-source-line"

// annotatedLinesKey stores the ordered annotated line list for one parse.
var annotatedLinesKey = parser.NewContextKey()

// lineAnnotator tags block nodes with their starting source line and
// collects the full line list into the parser context.
//
// Only block kinds whose HTML renderer emits node attributes are tagged;
// annotating the others would desynchronize the collected list from the
// attributes actually present in the output.
type lineAnnotator struct{}

var _ parser.ASTTransformer = lineAnnotator{}

func (lineAnnotator) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	starts := lineStartOffsets(source)

	var lines []int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock || !annotatableKind(n.Kind()) {
			return ast.WalkContinue, nil
		}
		segs := n.Lines()
		if segs == nil || segs.Len() == 0 {
			return ast.WalkContinue, nil
		}
		line := lineForOffset(starts, segs.At(0).Start)
		n.SetAttributeString(sourceLineAttr, []byte(strconv.Itoa(line)))
		lines = append(lines, line)
		return ast.WalkContinue, nil
	})

	pc.Set(annotatedLinesKey, lines)
}

// annotatableKind reports whether goldmark's HTML renderer writes node
// attributes for this block kind.
func annotatableKind(kind ast.NodeKind) bool {
	switch kind {
	case ast.KindHeading, ast.KindParagraph, ast.KindBlockquote, ast.KindList, mathBlockKind:
		return true
	}
	return false
}

// lineStartOffsets returns the byte offset at which each line begins.
func lineStartOffsets(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset returns the 1-based line containing the byte offset.
func lineForOffset(starts []int, offset int) int {
	// First line whose start is past the offset; the offset's line is the
	// one before it.
	i := sort.SearchInts(starts, offset+1)
	return i
}

// annotatedLines extracts the line list collected during a parse.
func annotatedLines(pc parser.Context) []int {
	lines, _ := pc.Get(annotatedLinesKey).([]int)
	return lines
}
