package mindmap

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, outline string) *Node {
	t.Helper()
	root, err := Parse(outline)
	require.NoError(t, err)
	return root
}

func TestLayoutRadiusGrowsByDepth(t *testing.T) {
	t.Parallel()

	d := Layout(mustParse(t, sampleOutline))

	// Nodes on a shared coordinate origin after normalization: compute
	// each node's distance from the root.
	root := d.Nodes[0]
	for _, n := range d.Nodes[1:] {
		r := math.Hypot(n.X-root.X, n.Y-root.Y)
		assert.InDelta(t, float64(n.Depth)*RingSpacing, r, 0.5,
			"node %q at depth %d", n.Label, n.Depth)
	}
}

func TestLayoutSectorProportionalToLeaves(t *testing.T) {
	t.Parallel()

	// Left branch has 3 leaves, right has 1: the left child's sector is
	// [0, 3π/2), so its midpoint angle is 3π/4; the right child's
	// sector is [3π/2, 2π), midpoint 7π/4.
	root := mustParse(t, "- Root\n  - Left\n    - A\n    - B\n    - C\n  - Right\n")
	d := Layout(root)

	center := d.Nodes[0]
	var left, right PlacedNode
	for _, n := range d.Nodes {
		switch n.Label {
		case "Left":
			left = n
		case "Right":
			right = n
		}
	}

	leftAngle := math.Atan2(left.Y-center.Y, left.X-center.X)
	rightAngle := math.Atan2(right.Y-center.Y, right.X-center.X)
	assert.InDelta(t, 3*math.Pi/4, normalizeAngle(leftAngle), 1e-6)
	assert.InDelta(t, 7*math.Pi/4, normalizeAngle(rightAngle), 1e-6)
}

func normalizeAngle(a float64) float64 {
	for a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func TestLayoutEdgesLinkParentToChild(t *testing.T) {
	t.Parallel()

	root := mustParse(t, sampleOutline)
	d := Layout(root)

	// One edge per non-root node.
	assert.Len(t, d.Edges, len(d.Nodes)-1)

	byID := make(map[int]PlacedNode, len(d.Nodes))
	for _, n := range d.Nodes {
		byID[n.ID] = n
	}
	for _, e := range d.Edges {
		parent := byID[e.Parent]
		child := byID[e.Child]
		assert.Equal(t, parent.Depth+1, child.Depth)
		assert.InDelta(t, parent.X, e.X1, 1e-9)
		assert.InDelta(t, parent.Y, e.Y1, 1e-9)
		assert.InDelta(t, child.X, e.X2, 1e-9)
		assert.InDelta(t, child.Y, e.Y2, 1e-9)
	}
}

func TestLayoutCanvasCoversAllNodes(t *testing.T) {
	t.Parallel()

	d := Layout(mustParse(t, sampleOutline))

	assert.Positive(t, d.Width)
	assert.Positive(t, d.Height)
	for _, n := range d.Nodes {
		assert.GreaterOrEqual(t, n.X-n.Width/2, 0.0, "node %q left edge", n.Label)
		assert.GreaterOrEqual(t, n.Y-n.Height/2, 0.0, "node %q top edge", n.Label)
		assert.LessOrEqual(t, n.X+n.Width/2, d.Width, "node %q right edge", n.Label)
		assert.LessOrEqual(t, n.Y+n.Height/2, d.Height, "node %q bottom edge", n.Label)
	}
}

func TestLayoutSingleNode(t *testing.T) {
	t.Parallel()

	d := Layout(&Node{Label: "Alone"})

	require.Len(t, d.Nodes, 1)
	assert.Empty(t, d.Edges)
	assert.Equal(t, "Alone", d.Nodes[0].Label)
}

func TestWrapLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"short"}, wrapLabel("short", 24))

	lines := wrapLabel("one two three four five six seven eight nine", 10)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 10)
	}

	// Space-free text is chunked by rune count.
	cjk := wrapLabel(strings.Repeat("字", 30), 14)
	assert.Len(t, cjk, 3)
	assert.Equal(t, 14, len([]rune(cjk[0])))

	// Never more than six lines.
	many := wrapLabel(strings.Repeat("word ", 60), 10)
	assert.LessOrEqual(t, len(many), 6)
}

func TestSVGContainsNodesAndEdges(t *testing.T) {
	t.Parallel()

	d := Layout(mustParse(t, sampleOutline))
	svg := SVG(d)

	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, "Graph Theory")
	assert.Contains(t, svg, "Adjacency list")
	assert.Equal(t, len(d.Edges), strings.Count(svg, "<path"))
	assert.Equal(t, len(d.Nodes), strings.Count(svg, `rx="11"`))
}

func TestSVGEscapesLabels(t *testing.T) {
	t.Parallel()

	// Angle brackets survive cleanLabel only via entity-bearing text;
	// build a node directly to exercise escaping.
	d := Layout(&Node{Label: "a < b & c"})
	svg := SVG(d)

	assert.Contains(t, svg, "a &lt; b &amp; c")
	assert.NotContains(t, svg, "a < b & c</tspan>")
}
