package mindmap

import (
	"fmt"
	"html"
	"strings"
)

// Depth palette: fill and stroke pairs, clamped at the deepest entry.
var (
	fills   = []string{"#dbeafe", "#e2e8f0", "#fef3c7", "#dcfce7", "#fee2e2", "#ede9fe"}
	strokes = []string{"#1d4ed8", "#334155", "#b45309", "#166534", "#b91c1c", "#6d28d9"}
)

// Palette returns the fill and stroke colors for a depth level.
func Palette(depth int) (fill, stroke string) {
	idx := min(depth, len(fills)-1)
	return fills[idx], strokes[idx]
}

// SVG serializes a diagram as a standalone vector graphic suitable for
// direct embedding in API responses.
func SVG(d *Diagram) string {
	var b strings.Builder

	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" role="img" aria-label="Mind map diagram">`,
		int(d.Width), int(d.Height), int(d.Width), int(d.Height))
	b.WriteString(`<rect x="0" y="0" width="100%" height="100%" fill="#f8fafc"/>`)

	for _, e := range d.Edges {
		fmt.Fprintf(&b,
			`<path d="M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f" fill="none" stroke="#94a3b8" stroke-width="1.6" stroke-linecap="round"/>`,
			e.X1, e.Y1, e.CX1, e.CY1, e.CX2, e.CY2, e.X2, e.Y2)
	}

	for _, n := range d.Nodes {
		fill, stroke := Palette(n.Depth)
		fmt.Fprintf(&b,
			`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="11" ry="11" fill="%s" stroke="%s" stroke-width="1.5"/>`,
			n.X-n.Width/2, n.Y-n.Height/2, n.Width, n.Height, fill, stroke)

		baseY := n.Y - float64(len(n.Lines)-1)*lineHeight/2
		fmt.Fprintf(&b,
			`<text x="%.2f" y="%.2f" font-family="Arial, sans-serif" font-size="12" text-anchor="middle" fill="#0f172a">`,
			n.X, baseY)
		for i, line := range n.Lines {
			dy := 0.0
			if i > 0 {
				dy = lineHeight
			}
			fmt.Fprintf(&b, `<tspan x="%.2f" dy="%g">%s</tspan>`, n.X, dy, html.EscapeString(line))
		}
		b.WriteString(`</text>`)
	}

	b.WriteString(`</svg>`)
	return b.String()
}
