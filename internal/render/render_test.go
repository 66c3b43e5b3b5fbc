package render

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notestream/notestream/internal/mindmap"
)

func testHeader(kind string) Header {
	return Header{
		Kind:        kind,
		VideoTitle:  "Graph Theory Basics",
		Channel:     "CS Basics",
		SourceURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Summary:     "A short overview of graphs.",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func requirePDF(t *testing.T, doc []byte) {
	t.Helper()
	require.NotEmpty(t, doc)
	assert.True(t, strings.HasPrefix(string(doc[:5]), "%PDF-"), "output must be a PDF document")
}

var (
	pageCountPattern = regexp.MustCompile(`/Count (\d+)`)
	mediaBoxPattern  = regexp.MustCompile(`/MediaBox \[0 0 ([0-9.]+) ([0-9.]+)\]`)
)

// pageCount reads the page total from the document's page-tree object.
func pageCount(t *testing.T, doc []byte) int {
	t.Helper()
	m := pageCountPattern.FindSubmatch(doc)
	require.NotNil(t, m, "PDF must carry a page count")
	n, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	return n
}

// mediaBoxHeight reads the largest page height declared in the
// document.
func mediaBoxHeight(t *testing.T, doc []byte) float64 {
	t.Helper()
	matches := mediaBoxPattern.FindAllSubmatch(doc, -1)
	require.NotEmpty(t, matches, "PDF must declare a MediaBox")
	var max float64
	for _, m := range matches {
		h, err := strconv.ParseFloat(string(m[2]), 64)
		require.NoError(t, err)
		if h > max {
			max = h
		}
	}
	return max
}

func TestNotesRendersMarkdown(t *testing.T) {
	t.Parallel()

	markdown := `# Graphs

Some introduction text.

## Definitions

- Vertex: a point
- Edge: a connection
  - Directed
  - Undirected

| Term | Meaning |
| ---- | ------- |
| V | vertex set |
| E | edge set |

> Graphs model pairwise relations.

` + "```\nfor v in vertices:\n    visit(v)\n```\n"

	doc, err := Notes(testHeader("Notes"), markdown, nil)
	require.NoError(t, err)
	requirePDF(t, doc)
}

func TestNotesEmptyContentFails(t *testing.T) {
	t.Parallel()

	_, err := Notes(testHeader("Notes"), "   \n  ", nil)
	require.ErrorIs(t, err, ErrRenderFailure)
}

func TestNotesWithDiagram(t *testing.T) {
	t.Parallel()

	root, err := mindmap.Parse("- Center\n  - Left\n  - Right\n")
	require.NoError(t, err)
	diagram := mindmap.Layout(root)

	doc, err := Notes(testHeader("Notes"), "", diagram)
	require.NoError(t, err)
	requirePDF(t, doc)
}

func TestNotesDiagramPageFitsBelowHeader(t *testing.T) {
	t.Parallel()

	var outline strings.Builder
	outline.WriteString("# Study Map\n")
	for _, branch := range []string{"Foundations", "Traversal", "Shortest Paths", "Flows", "Matchings", "Coloring"} {
		outline.WriteString("- " + branch + "\n")
		outline.WriteString("  - " + branch + " definitions\n")
		outline.WriteString("  - " + branch + " algorithms\n")
	}
	root, err := mindmap.Parse(outline.String())
	require.NoError(t, err)
	diagram := mindmap.Layout(root)

	h := testHeader("Notes")
	h.Summary = strings.Repeat("Graphs model pairwise relations between objects. ", 60)

	doc, err := Notes(h, "", diagram)
	require.NoError(t, err)
	requirePDF(t, doc)

	// The single diagram page must hold the header plus the whole
	// drawing; nothing below the header may fall past the page edge.
	width := a4Width
	if diagram.Width+2*pageMargin > width {
		width = diagram.Width + 2*pageMargin
	}
	needed := headerHeight(h, width) + diagramTopGap + diagram.Height + pageMargin
	assert.GreaterOrEqual(t, mediaBoxHeight(t, doc), needed)
	assert.Equal(t, 1, pageCount(t, doc))
}

func TestQuizRendersWithAnswerKey(t *testing.T) {
	t.Parallel()

	body := `# Quiz

1. What is a vertex?
2. What is an edge?
`
	key := `
## Answer Key

1. A point in a graph.
2. A connection between two vertices.
`

	withKey, err := Quiz(testHeader("Quiz"), body+key)
	require.NoError(t, err)
	requirePDF(t, withKey)

	withoutKey, err := Quiz(testHeader("Quiz"), body)
	require.NoError(t, err)
	requirePDF(t, withoutKey)

	// The answer key always starts on a fresh page, independent of
	// where the question sheet ends.
	assert.Equal(t, pageCount(t, withoutKey)+1, pageCount(t, withKey))
}

func TestQuizEmptyContentFails(t *testing.T) {
	t.Parallel()

	_, err := Quiz(testHeader("Quiz"), "")
	require.ErrorIs(t, err, ErrRenderFailure)
}

func TestSplitQuizSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		markdown   string
		wantBody   string
		wantAnswer string
	}{
		{
			name:       "answer key",
			markdown:   "# Quiz\n\nQ1\n\n## Answer Key\n\nA1",
			wantBody:   "# Quiz\n\nQ1",
			wantAnswer: "## Answer Key\n\nA1",
		},
		{
			name:       "mark scheme",
			markdown:   "questions\n\n## Mark Scheme\ndetails",
			wantBody:   "questions",
			wantAnswer: "## Mark Scheme\ndetails",
		},
		{
			name:       "solution",
			markdown:   "body\n\n## Solution\nworked",
			wantBody:   "body",
			wantAnswer: "## Solution\nworked",
		},
		{
			name:       "case insensitive",
			markdown:   "body\n\n## ANSWER KEY\nanswers",
			wantBody:   "body",
			wantAnswer: "## ANSWER KEY\nanswers",
		},
		{
			name:     "no marker",
			markdown: "just questions, nothing else",
			wantBody: "just questions, nothing else",
		},
		{
			name:     "marker must be a heading",
			markdown: "see the Answer Key below for details",
			wantBody: "see the Answer Key below for details",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			body, answer := SplitQuizSections(tt.markdown)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantAnswer, answer)
		})
	}
}

func TestHexToRGB(t *testing.T) {
	t.Parallel()

	r, g, b := hexToRGB("#1d4ed8")
	assert.Equal(t, 0x1d, r)
	assert.Equal(t, 0x4e, g)
	assert.Equal(t, 0xd8, b)

	// Malformed values fall back to slate grey.
	r, g, b = hexToRGB("nope")
	assert.Equal(t, 100, r)
	assert.Equal(t, 116, g)
	assert.Equal(t, 139, b)
}
