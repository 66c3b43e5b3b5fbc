package mindmap

import (
	"math"
	"strings"
)

// Geometry constants. Ring spacing is constant per depth level; the
// canvas is never clipped to a page size, it grows to fit the tree.
const (
	RingSpacing   = 190.0
	Margin        = 120.0
	minNodeWidth  = 110.0
	maxNodeWidth  = 300.0
	lineHeight    = 16.0
	charWidth     = 6.8
	nodePaddingX  = 26.0
	nodePaddingY  = 14.0
	minNodeHeight = 38.0
	fullCircle    = 2 * math.Pi
)

// PlacedNode is a node with its computed position and box size.
// X and Y are the node center in canvas coordinates.
type PlacedNode struct {
	ID               int
	Label            string
	Lines            []string
	Depth            int
	GeneratedExample bool
	X, Y             float64
	Width, Height    float64
}

// Edge is a curved connector from a parent node to a child node,
// expressed as a cubic Bézier: start at (X1,Y1), end at (X2,Y2),
// control points (CX1,CY1) and (CX2,CY2).
type Edge struct {
	Parent, Child int
	X1, Y1        float64
	CX1, CY1      float64
	CX2, CY2      float64
	X2, Y2        float64
}

// Diagram is the full computed layout, ready for SVG serialization or
// direct PDF drawing.
type Diagram struct {
	Width, Height float64
	Nodes         []PlacedNode
	Edges         []Edge
}

// Layout computes the radial geometry for a parsed tree. Each node
// receives an angular sector proportional to its subtree's leaf count,
// subdivided depth-first among children in source order, so sibling
// order in the outline is preserved as angular order. Radius grows by
// RingSpacing per depth level; each node sits at its sector's midpoint
// angle.
func Layout(root *Node) *Diagram {
	d := &Diagram{}
	nextID := 0

	var place func(node *Node, startAngle, endAngle float64) int
	place = func(node *Node, startAngle, endAngle float64) int {
		id := nextID
		nextID++

		angle := (startAngle + endAngle) / 2
		radius := float64(node.Depth) * RingSpacing

		lines := wrapLabel(node.Label, maxCharsForDepth(node.Depth))
		width, height := boxSize(lines)

		d.Nodes = append(d.Nodes, PlacedNode{
			ID:               id,
			Label:            node.Label,
			Lines:            lines,
			Depth:            node.Depth,
			GeneratedExample: node.GeneratedExample,
			X:                radius * math.Cos(angle),
			Y:                radius * math.Sin(angle),
			Width:            width,
			Height:           height,
		})

		totalLeaves := node.Leaves()
		childStart := startAngle
		for _, child := range node.Children {
			span := (endAngle - startAngle) * float64(child.Leaves()) / float64(totalLeaves)
			childID := place(child, childStart, childStart+span)
			d.Edges = append(d.Edges, connect(d.Nodes[id], d.Nodes[childID]))
			childStart += span
		}

		return id
	}

	place(root, 0, fullCircle)
	d.normalize()
	return d
}

// connect builds the curved connector between two placed nodes. The
// control points follow the radial midline at each endpoint's angle,
// which produces the smooth fan-out typical of radial tree diagrams.
func connect(parent, child PlacedNode) Edge {
	parentR := math.Hypot(parent.X, parent.Y)
	childR := math.Hypot(child.X, child.Y)
	midR := parentR + (childR-parentR)/2

	parentAngle := math.Atan2(parent.Y, parent.X)
	childAngle := math.Atan2(child.Y, child.X)
	if parentR == 0 {
		// The root has no angle of its own; curve straight toward the child.
		parentAngle = childAngle
	}

	return Edge{
		Parent: parent.ID,
		Child:  child.ID,
		X1:     parent.X, Y1: parent.Y,
		CX1: midR * math.Cos(parentAngle), CY1: midR * math.Sin(parentAngle),
		CX2: midR * math.Cos(childAngle), CY2: midR * math.Sin(childAngle),
		X2: child.X, Y2: child.Y,
	}
}

// normalize shifts all coordinates into positive canvas space and
// computes the bounding box, expanded by Margin on every side.
func (d *Diagram) normalize() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range d.Nodes {
		minX = math.Min(minX, n.X-n.Width/2)
		maxX = math.Max(maxX, n.X+n.Width/2)
		minY = math.Min(minY, n.Y-n.Height/2)
		maxY = math.Max(maxY, n.Y+n.Height/2)
	}

	shiftX := Margin - minX
	shiftY := Margin - minY
	for i := range d.Nodes {
		d.Nodes[i].X += shiftX
		d.Nodes[i].Y += shiftY
	}
	for i := range d.Edges {
		e := &d.Edges[i]
		e.X1 += shiftX
		e.CX1 += shiftX
		e.CX2 += shiftX
		e.X2 += shiftX
		e.Y1 += shiftY
		e.CY1 += shiftY
		e.CY2 += shiftY
		e.Y2 += shiftY
	}

	d.Width = (maxX - minX) + Margin*2
	d.Height = (maxY - minY) + Margin*2
}

func maxCharsForDepth(depth int) int {
	return max(14, 24-depth)
}

// wrapLabel breaks a label into at most six display lines.
// Space-free text (CJK and the like) is chunked by rune count.
func wrapLabel(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{""}
	}

	if !strings.Contains(text, " ") && len([]rune(text)) > maxChars {
		runes := []rune(text)
		var chunks []string
		for i := 0; i < len(runes); i += maxChars {
			chunks = append(chunks, string(runes[i:min(i+maxChars, len(runes))]))
		}
		return capLines(chunks)
	}

	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		if len(word) > maxChars {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for i := 0; i < len(word); i += maxChars {
				lines = append(lines, word[i:min(i+maxChars, len(word))])
			}
			continue
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxChars:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return capLines(lines)
}

func capLines(lines []string) []string {
	if len(lines) > 6 {
		return lines[:6]
	}
	return lines
}

func boxSize(lines []string) (width, height float64) {
	longest := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > longest {
			longest = n
		}
	}
	width = math.Max(minNodeWidth, math.Min(maxNodeWidth, float64(longest)*charWidth+nodePaddingX))
	height = math.Max(minNodeHeight, nodePaddingY+float64(len(lines))*lineHeight)
	return width, height
}
