// Package render converts generated Markdown (or a mind-map diagram)
// plus a metadata header into paginated, print-ready PDF documents.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/notestream/notestream/internal/mindmap"
)

// ErrRenderFailure indicates the input could not be shaped into the
// structure the layout expects. It is surfaced to the caller, never
// degraded to a blank document.
var ErrRenderFailure = errors.New("document rendering failed")

// A4 page size in points.
const (
	a4Width  = 595.28
	a4Height = 841.89

	pageMargin = 36.0
)

// Header is the metadata block prepended to the first page of every
// document, followed by the most recent summary when available.
type Header struct {
	Kind        string // "Notes" or "Quiz"
	VideoTitle  string
	Channel     string
	SourceURL   string
	Summary     string
	GeneratedAt time.Time
}

// Notes renders note Markdown into a PDF. For mind-map notes pass the
// computed diagram: it is embedded as vector drawing on a page sized
// to its bounding box instead of being flattened to text.
func Notes(h Header, markdown string, diagram *mindmap.Diagram) ([]byte, error) {
	if diagram == nil && strings.TrimSpace(markdown) == "" {
		return nil, fmt.Errorf("%w: empty notes content", ErrRenderFailure)
	}

	pdf := newDocument(h, diagram)
	writeHeader(pdf, h)

	writeSectionTitle(pdf, "Notes")
	if diagram != nil {
		drawDiagram(pdf, diagram)
	} else {
		writeMarkdown(pdf, markdown)
	}

	return output(pdf)
}

// Quiz renders quiz Markdown into a PDF. The answer key / mark scheme
// section always starts on a fresh page so it can be printed
// separately from the question sheet.
func Quiz(h Header, markdown string) ([]byte, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, fmt.Errorf("%w: empty quiz content", ErrRenderFailure)
	}

	body, answerKey := SplitQuizSections(markdown)

	pdf := newDocument(h, nil)
	writeHeader(pdf, h)

	writeSectionTitle(pdf, "Quiz")
	writeMarkdown(pdf, body)

	if answerKey != "" {
		pdf.AddPage()
		writeMarkdown(pdf, answerKey)
	}

	return output(pdf)
}

var answerKeyPattern = regexp.MustCompile(`(?im)^##\s+(Answer\s+Key|Mark\s+Scheme|Solution)\s*$`)

// SplitQuizSections separates the quiz body from its answer key /
// mark scheme / solution section. The second return is empty when no
// such marker exists.
func SplitQuizSections(markdown string) (body, answerKey string) {
	loc := answerKeyPattern.FindStringIndex(markdown)
	if loc == nil {
		return strings.TrimSpace(markdown), ""
	}
	return strings.TrimSpace(markdown[:loc[0]]), strings.TrimSpace(markdown[loc[0]:])
}

// newDocument creates the page structure. Mind-map documents get a
// custom page size that grows to the diagram's bounding box below the
// measured header, since the drawing never paginates; everything else
// paginates on A4.
func newDocument(h Header, diagram *mindmap.Diagram) *fpdf.Fpdf {
	size := fpdf.SizeType{Wd: a4Width, Ht: a4Height}
	if diagram != nil {
		if diagram.Width+2*pageMargin > size.Wd {
			size.Wd = diagram.Width + 2*pageMargin
		}
		need := headerHeight(h, size.Wd) + diagramTopGap + diagram.Height + pageMargin + 16
		if need > size.Ht {
			size.Ht = need
		}
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           size,
	})
	pdf.SetTitle(h.VideoTitle+" - "+h.Kind, true)
	pdf.SetMargins(pageMargin, pageMargin+4, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+4)
	pdf.AddPage()
	return pdf
}

// headerHeight measures how far down the page the header block and the
// section title reach, by writing them onto a throwaway page of the
// same width. The summary length varies freely, so this cannot be a
// fixed allowance.
func headerHeight(h Header, width float64) float64 {
	scratch := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: 100000},
	})
	scratch.SetMargins(pageMargin, pageMargin+4, pageMargin)
	scratch.SetAutoPageBreak(false, 0)
	scratch.AddPage()
	writeHeader(scratch, h)
	writeSectionTitle(scratch, "Notes")
	return scratch.GetY()
}

// writeHeader emits the document title, the video metadata block, and
// the summary section on the first page.
func writeHeader(pdf *fpdf.Fpdf, h Header) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(15, 23, 42)
	pdf.MultiCell(0, 22, tr(h.Kind+" PDF"), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	meta := []string{
		"Video: " + h.VideoTitle,
		"Channel: " + h.Channel,
		"URL: " + h.SourceURL,
		"Generated: " + h.GeneratedAt.UTC().Format(time.RFC3339),
	}
	for _, line := range meta {
		pdf.MultiCell(0, 12, tr(line), "", "L", false)
	}
	pdf.Ln(8)

	if strings.TrimSpace(h.Summary) != "" {
		writeSectionTitle(pdf, "Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(31, 41, 55)
		pdf.MultiCell(0, bodyLineHeight, tr(h.Summary), "", "L", false)
		pdf.Ln(8)
	}
}

func writeSectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(15, 23, 42)
	pdf.MultiCell(0, 16, title, "", "L", false)
	pdf.Ln(3)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}
