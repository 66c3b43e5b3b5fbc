// Package mindmap parses the constrained nested-outline Markdown the
// mind-map note style produces and computes a radial diagram layout:
// node positions on depth rings, angular sectors proportional to
// subtree leaf counts, and curved connectors back to each parent.
package mindmap

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// GeneratedExampleSuffix marks content the LLM synthesized rather than
// took from the source material.
const GeneratedExampleSuffix = "(Generated Example)"

// ErrInvalidOutline indicates the Markdown is not a well-formed nested
// outline: it is empty, or a line indents more than one level past its
// predecessor.
var ErrInvalidOutline = errors.New("invalid mind map outline")

// Node is one labeled node of the mind-map tree. The tree is strict:
// children are ordered as they appear in the source, and identical
// labels remain distinct instances.
type Node struct {
	Label            string
	Depth            int
	Children         []*Node
	GeneratedExample bool
}

// Leaves returns the number of leaf nodes in the subtree rooted at n.
// A childless node counts as one leaf.
func (n *Node) Leaves() int {
	if len(n.Children) == 0 {
		return 1
	}
	total := 0
	for _, child := range n.Children {
		total += child.Leaves()
	}
	return total
}

var (
	bulletPattern  = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)
	headingPattern = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	linkPattern    = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	spaceRun       = regexp.MustCompile(`\s+`)
)

// cleanLabel strips inline Markdown and HTML markup from outline text.
func cleanLabel(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = linkPattern.ReplaceAllString(cleaned, "$1")
	cleaned = strings.NewReplacer("`", "", "**", "", "__", "", "*", "").Replace(cleaned)
	cleaned = tagPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))
}

// Parse builds the mind-map tree from nested unordered list items.
// Indentation encodes depth (two spaces or one tab per level). The
// first Markdown heading, if any, titles a synthetic root when the
// outline has several top-level items; a single top-level item becomes
// the root itself.
func Parse(markdown string) (*Node, error) {
	var headingTitle string
	type bullet struct {
		indent int
		text   string
	}
	var bullets []bullet

	for _, rawLine := range strings.Split(markdown, "\n") {
		if m := headingPattern.FindStringSubmatch(strings.TrimSpace(rawLine)); m != nil && headingTitle == "" {
			headingTitle = cleanLabel(m[1])
		}

		m := bulletPattern.FindStringSubmatch(rawLine)
		if m == nil {
			continue
		}
		indent := len(strings.ReplaceAll(m[1], "\t", "  "))
		if text := cleanLabel(m[2]); text != "" {
			bullets = append(bullets, bullet{indent: indent, text: text})
		}
	}

	if len(bullets) == 0 {
		return nil, fmt.Errorf("%w: no list items found", ErrInvalidOutline)
	}

	minIndent := bullets[0].indent
	for _, b := range bullets {
		if b.indent < minIndent {
			minIndent = b.indent
		}
	}

	pseudoRoot := &Node{Label: "", Depth: -1}
	type frame struct {
		depth int
		node  *Node
	}
	stack := []frame{{depth: -1, node: pseudoRoot}}
	prevDepth := -1

	for _, b := range bullets {
		depth := (b.indent - minIndent) / 2
		if depth > prevDepth+1 {
			return nil, fmt.Errorf("%w: item %q skips from depth %d to %d",
				ErrInvalidOutline, b.text, prevDepth, depth)
		}

		node := &Node{
			Label:            b.text,
			GeneratedExample: strings.HasSuffix(b.text, GeneratedExampleSuffix),
		}
		for len(stack) > 1 && depth <= stack[len(stack)-1].depth {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, frame{depth: depth, node: node})
		prevDepth = depth
	}

	var root *Node
	if len(pseudoRoot.Children) == 1 {
		root = pseudoRoot.Children[0]
	} else {
		title := headingTitle
		if title == "" {
			title = "Mind Map"
		}
		root = &Node{Label: title, Children: pseudoRoot.Children}
	}

	assignDepths(root, 0)
	return root, nil
}

func assignDepths(node *Node, depth int) {
	node.Depth = depth
	for _, child := range node.Children {
		assignDepths(child, depth+1)
	}
}
