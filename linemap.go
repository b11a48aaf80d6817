package mdstudio

import (
	"sort"
	"strings"
	"time"
)

// HighlightDuration is how long the preview highlights a node reached via
// click-to-sync before fading.
const HighlightDuration = time.Second

// contextMarginPx is subtracted from the estimated editor offset so the
// target line lands below the top edge instead of flush against it.
const contextMarginPx = 100.0

// LineAt returns the 1-based line number containing the caret: the count of
// newline characters before the caret, plus one. A caret beyond the content
// resolves to the last line.
func LineAt(content string, caret int) int {
	if caret < 0 {
		caret = 0
	}
	if caret > len(content) {
		caret = len(content)
	}
	return strings.Count(content[:caret], "\n") + 1
}

// LineIndex is the set of source lines annotated onto rendered nodes by the
// last render pass. It is rebuilt on every render; node identities are not
// stable across renders, only line numbers are.
type LineIndex struct {
	lines []int
}

// NewLineIndex builds an index from the annotated lines of one render pass,
// in ascending order.
func NewLineIndex(lines []int) *LineIndex {
	sorted := make([]int, len(lines))
	copy(sorted, lines)
	sort.Ints(sorted)
	return &LineIndex{lines: sorted}
}

// Resolve maps a clicked source line to the annotated line of the rendered
// node to bring into view: the first annotation >= clicked (ascending scan),
// falling back to the last annotation <= clicked when the click is past the
// final annotated block. ok is false when no annotated nodes exist.
func (ix *LineIndex) Resolve(clicked int) (line int, ok bool) {
	if len(ix.lines) == 0 {
		return 0, false
	}
	for _, l := range ix.lines {
		if l >= clicked {
			return l, true
		}
	}
	for i := len(ix.lines) - 1; i >= 0; i-- {
		if ix.lines[i] <= clicked {
			return ix.lines[i], true
		}
	}
	return 0, false
}

// Len returns the number of annotated lines.
func (ix *LineIndex) Len() int {
	return len(ix.lines)
}

// EditorScrollOffset estimates the editor scrollTop that brings a source
// line into view: (line-1) * lineHeight, minus a fixed context margin,
// clamped at 0. The line height comes from the fixed per-font-size table,
// so the estimate drifts for soft-wrapped lines; that imprecision is an
// accepted property of the mapping.
func EditorScrollOffset(line, fontSize int) float64 {
	if line < 1 {
		line = 1
	}
	offset := float64(line-1)*EditorLineHeight(fontSize) - contextMarginPx
	if offset < 0 {
		return 0
	}
	return offset
}
