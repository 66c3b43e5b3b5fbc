package render

import (
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// bodyLineHeight is the baseline line height in points for body text.
const bodyLineHeight = 14.0

// markdownWriter walks a goldmark AST and emits fpdf layout blocks:
// headings as distinct styled blocks, tables as grids, code in
// fixed-width boxes, blockquotes as tinted callouts, lists indented by
// nesting depth.
type markdownWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	source []byte
}

var gfm = goldmark.New(goldmark.WithExtensions(extension.GFM))

// writeMarkdown renders a Markdown document at the current position.
func writeMarkdown(pdf *fpdf.Fpdf, markdown string) {
	source := []byte(markdown)
	doc := gfm.Parser().Parse(text.NewReader(source))

	w := &markdownWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		source: source,
	}
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		w.block(child, 0)
	}
}

func (w *markdownWriter) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

// block dispatches one block-level node. depth tracks list nesting.
func (w *markdownWriter) block(node ast.Node, depth int) {
	switch n := node.(type) {
	case *ast.Heading:
		w.heading(n)
	case *ast.Paragraph, *ast.TextBlock:
		w.paragraph(node, depth)
	case *ast.List:
		w.list(n, depth)
	case *ast.FencedCodeBlock:
		w.codeBlock(n.Lines())
	case *ast.CodeBlock:
		w.codeBlock(n.Lines())
	case *ast.Blockquote:
		w.blockquote(n)
	case *ast.ThematicBreak:
		w.pdf.Ln(6)
	case *extast.Table:
		w.table(n)
	default:
		// Unknown blocks degrade to their flattened text.
		if txt := strings.TrimSpace(w.flatten(node)); txt != "" {
			w.bodyText(txt, depth)
		}
	}
}

func (w *markdownWriter) heading(n *ast.Heading) {
	size := 16.0 - float64(min(n.Level, 4)-1)*1.6
	w.pdf.Ln(4)
	w.pdf.SetFont("Helvetica", "B", size)
	w.pdf.SetTextColor(15, 23, 42)
	w.pdf.MultiCell(0, size+3, w.tr(w.flatten(n)), "", "L", false)
	w.pdf.Ln(2)
	w.resetBodyFont()
}

func (w *markdownWriter) paragraph(node ast.Node, depth int) {
	txt := strings.TrimSpace(w.flatten(node))
	if txt == "" {
		return
	}
	w.bodyText(txt, depth)
	if depth == 0 {
		w.pdf.Ln(3)
	}
}

func (w *markdownWriter) bodyText(txt string, depth int) {
	w.resetBodyFont()
	left, _, _, _ := w.pdf.GetMargins()
	indent := float64(depth) * 12
	w.pdf.SetX(left + indent)
	w.pdf.MultiCell(w.contentWidth()-indent, bodyLineHeight, w.tr(txt), "", "L", false)
}

func (w *markdownWriter) list(n *ast.List, depth int) {
	index := n.Start
	if index == 0 {
		index = 1
	}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if n.IsOrdered() {
			marker = strconv.Itoa(index) + ". "
			index++
		}

		// The item's first paragraph carries the label; nested blocks
		// (sublists, code) follow at one more indent level.
		first := true
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch child.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				txt := strings.TrimSpace(w.flatten(child))
				if first {
					txt = marker + txt
					first = false
				}
				w.bodyText(txt, depth+1)
			default:
				w.block(child, depth+1)
			}
		}
	}
	if depth == 0 {
		w.pdf.Ln(3)
	}
}

func (w *markdownWriter) codeBlock(lines *text.Segments) {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.source))
	}
	code := strings.TrimRight(b.String(), "\n")
	if code == "" {
		return
	}

	w.pdf.SetFont("Courier", "", 9)
	w.pdf.SetFillColor(241, 245, 249)
	w.pdf.SetTextColor(15, 23, 42)
	w.pdf.MultiCell(0, 11, w.tr(code), "", "L", true)
	w.pdf.Ln(4)
	w.resetBodyFont()
}

func (w *markdownWriter) blockquote(n *ast.Blockquote) {
	txt := strings.TrimSpace(w.flatten(n))
	if txt == "" {
		return
	}

	left, _, _, _ := w.pdf.GetMargins()
	startY := w.pdf.GetY()

	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.SetFillColor(248, 250, 252)
	w.pdf.SetX(left + 6)
	w.pdf.MultiCell(w.contentWidth()-6, bodyLineHeight, w.tr(txt), "", "L", true)

	// Accent bar along the left edge of the callout.
	w.pdf.SetFillColor(96, 165, 250)
	w.pdf.Rect(left, startY, 3, w.pdf.GetY()-startY, "F")

	w.pdf.Ln(4)
	w.resetBodyFont()
}

func (w *markdownWriter) table(n *extast.Table) {
	var rows [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(w.flatten(cell)))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	cols := len(rows[0])
	width := w.contentWidth()
	colWidths := make([]float64, cols)
	if cols == 2 {
		colWidths[0], colWidths[1] = width*0.28, width*0.72
	} else {
		for i := range colWidths {
			colWidths[i] = width / float64(cols)
		}
	}

	left, _, _, _ := w.pdf.GetMargins()
	w.pdf.SetDrawColor(203, 213, 225)

	for rowIdx, row := range rows {
		header := rowIdx == 0
		style := ""
		if header {
			style = "B"
		}
		w.pdf.SetFont("Helvetica", style, 9.5)

		// Row height accommodates the tallest wrapped cell.
		lineH := 12.0
		maxLines := 1
		for i, cell := range row {
			if i >= cols {
				break
			}
			lines := len(w.pdf.SplitText(w.tr(cell), colWidths[i]-6))
			if lines > maxLines {
				maxLines = lines
			}
		}
		rowH := float64(maxLines)*lineH + 6

		// Keep the row on one page.
		_, pageH := w.pdf.GetPageSize()
		_, _, _, bottom := w.pdf.GetMargins()
		if w.pdf.GetY()+rowH > pageH-bottom {
			w.pdf.AddPage()
		}

		y := w.pdf.GetY()
		x := left
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if header {
				w.pdf.SetFillColor(234, 241, 255)
			} else {
				w.pdf.SetFillColor(255, 255, 255)
			}
			w.pdf.Rect(x, y, colWidths[i], rowH, "FD")
			w.pdf.SetXY(x+3, y+3)
			w.pdf.MultiCell(colWidths[i]-6, lineH, w.tr(cell), "", "L", false)
			x += colWidths[i]
		}
		w.pdf.SetXY(left, y+rowH)
	}

	w.pdf.Ln(6)
	w.resetBodyFont()
}

func (w *markdownWriter) resetBodyFont() {
	w.pdf.SetFont("Helvetica", "", 10.5)
	w.pdf.SetTextColor(31, 41, 55)
}

// flatten extracts the plain text of a node's inline content,
// dropping markup but keeping the reading order.
func (w *markdownWriter) flatten(node ast.Node) string {
	var b strings.Builder
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(w.source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.CodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(w.source))
				}
			}
			return
		case *ast.AutoLink:
			b.Write(t.URL(w.source))
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(node)
	return b.String()
}
