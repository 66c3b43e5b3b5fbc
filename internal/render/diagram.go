package render

import (
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/notestream/notestream/internal/mindmap"
)

const (
	diagramLineHeight = 16.0

	// diagramTopGap separates the diagram from the header block above
	// it. Page sizing accounts for the same gap.
	diagramTopGap = 8.0
)

// drawDiagram paints a laid-out mind map as vector shapes below the
// current cursor position. Edges go first so node boxes cover them.
func drawDiagram(pdf *fpdf.Fpdf, d *mindmap.Diagram) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	offsetX := pageMargin
	offsetY := pdf.GetY() + diagramTopGap

	pdf.SetLineWidth(1.4)
	pdf.SetDrawColor(148, 163, 184)
	for _, e := range d.Edges {
		pdf.MoveTo(offsetX+e.X1, offsetY+e.Y1)
		pdf.CurveBezierCubicTo(
			offsetX+e.CX1, offsetY+e.CY1,
			offsetX+e.CX2, offsetY+e.CY2,
			offsetX+e.X2, offsetY+e.Y2)
		pdf.DrawPath("D")
	}

	pdf.SetLineWidth(1.2)
	pdf.SetFont("Helvetica", "", 11)
	for _, n := range d.Nodes {
		fill, stroke := mindmap.Palette(n.Depth)
		fr, fg, fb := hexToRGB(fill)
		sr, sg, sb := hexToRGB(stroke)
		pdf.SetFillColor(fr, fg, fb)
		pdf.SetDrawColor(sr, sg, sb)
		pdf.RoundedRect(offsetX+n.X-n.Width/2, offsetY+n.Y-n.Height/2,
			n.Width, n.Height, 11, "1234", "FD")

		pdf.SetTextColor(15, 23, 42)
		top := offsetY + n.Y - float64(len(n.Lines))*diagramLineHeight/2
		for i, line := range n.Lines {
			y := top + float64(i)*diagramLineHeight
			w := pdf.GetStringWidth(tr(line))
			pdf.Text(offsetX+n.X-w/2, y+diagramLineHeight*0.72, tr(line))
		}
	}

	pdf.SetY(offsetY + d.Height)
}

// hexToRGB decodes "#rrggbb"; malformed values fall back to slate grey.
func hexToRGB(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 100, 116, 139
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 100, 116, 139
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
