package mdstudio

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// docxConverter abstracts rendered-HTML to DOCX conversion.
type docxConverter interface {
	FromHTML(ctx context.Context, fragment string) ([]byte, error)
}

// goDocxConverter converts a rendered preview fragment to a DOCX document
// by walking the HTML tree and emitting paragraphs and styled runs.
type goDocxConverter struct{}

var _ docxConverter = (*goDocxConverter)(nil)

// Heading run sizes in half-points, indexed by heading level.
var headingSizes = [7]string{"", "36", "32", "28", "26", "24", "22"}

// runStyle carries inline formatting accumulated while walking a block.
type runStyle struct {
	bold   bool
	italic bool
	code   bool
}

// FromHTML builds a DOCX document from a rendered HTML fragment.
func (c *goDocxConverter) FromHTML(ctx context.Context, fragment string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing fragment: %v", ErrDOCXGeneration, err)
	}

	w := docx.New().WithDefaultTheme()
	for _, n := range nodes {
		emitBlock(w, n)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDOCXGeneration, err)
	}
	return buf.Bytes(), nil
}

// emitBlock writes one block-level HTML node and its children as
// paragraphs. Unknown containers recurse so nothing is silently dropped.
func emitBlock(w *docx.Docx, n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		text := collectText(n)
		if text == "" {
			return
		}
		p := w.AddParagraph()
		p.AddText(text).Size(headingSizes[level]).Bold()

	case atom.P:
		emitRuns(w.AddParagraph(), n, runStyle{})

	case atom.Ul, atom.Ol:
		emitList(w, n, n.DataAtom == atom.Ol)

	case atom.Pre:
		// One paragraph per code line, monospace-colored.
		for _, line := range strings.Split(strings.TrimRight(collectText(n), "\n"), "\n") {
			p := w.AddParagraph()
			p.AddText(line).Color("555555")
		}

	case atom.Blockquote:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.DataAtom == atom.P {
				emitRuns(w.AddParagraph(), child, runStyle{italic: true})
			} else {
				emitBlock(w, child)
			}
		}

	case atom.Table:
		emitTable(w, n)

	case atom.Hr:
		w.AddParagraph().AddText(strings.Repeat("—", 12)).Color("999999")

	default:
		// math-block divs and other containers: recurse into children,
		// falling back to plain text when no block child exists.
		if hasBlockChild(n) {
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				emitBlock(w, child)
			}
			return
		}
		if text := collectText(n); text != "" {
			w.AddParagraph().AddText(text)
		}
	}
}

// emitList writes list items as bulleted or numbered text paragraphs.
func emitList(w *docx.Docx, n *html.Node, ordered bool) {
	idx := 0
	for item := n.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.DataAtom != atom.Li {
			continue
		}
		idx++
		prefix := "• "
		if ordered {
			prefix = strconv.Itoa(idx) + ". "
		}
		p := w.AddParagraph()
		p.AddText(prefix)
		emitRuns(p, item, runStyle{})
	}
}

// emitTable flattens table rows into pipe-separated text paragraphs.
// DOCX table geometry is out of scope for this exporter.
func emitTable(w *docx.Docx, n *html.Node) {
	var walkRows func(*html.Node)
	walkRows = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if child.DataAtom == atom.Tr {
				var cells []string
				for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.DataAtom == atom.Td || cell.DataAtom == atom.Th) {
						cells = append(cells, collectText(cell))
					}
				}
				if len(cells) > 0 {
					w.AddParagraph().AddText(strings.Join(cells, " | "))
				}
				continue
			}
			walkRows(child)
		}
	}
	walkRows(n)
}

// emitRuns walks the inline content of a block node and appends styled
// runs to the paragraph.
func emitRuns(p *docx.Paragraph, n *html.Node, style runStyle) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			text := collapseSpace(child.Data)
			if text == "" {
				continue
			}
			run := p.AddText(text)
			if style.bold {
				run.Bold()
			}
			if style.italic {
				run.Italic()
			}
			if style.code {
				run.Color("555555")
			}

		case html.ElementNode:
			next := style
			switch child.DataAtom {
			case atom.Strong, atom.B:
				next.bold = true
			case atom.Em, atom.I:
				next.italic = true
			case atom.Code:
				next.code = true
			case atom.Br:
				p.AddText(" ")
				continue
			}
			emitRuns(p, child, next)
		}
	}
}

// hasBlockChild reports whether n contains a recognized block element.
func hasBlockChild(n *html.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch child.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
			atom.P, atom.Ul, atom.Ol, atom.Pre, atom.Blockquote, atom.Table:
			return true
		}
	}
	return false
}

// collectText returns the concatenated text content of a node.
func collectText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// collapseSpace trims runs of whitespace to single spaces, preserving a
// leading or trailing separator between adjacent runs.
func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	out := strings.Join(strings.Fields(s), " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		out = " " + out
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	return out
}
