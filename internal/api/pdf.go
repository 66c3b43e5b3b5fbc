package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/notestream/notestream/internal/generate"
	"github.com/notestream/notestream/internal/mindmap"
	"github.com/notestream/notestream/internal/prompt"
	"github.com/notestream/notestream/internal/render"
	"github.com/notestream/notestream/internal/video"
)

// pdfHandler serves the PDF export endpoints. Exports reuse the
// generation pipeline, so a cached artifact never costs a second LLM
// call, and the most recent summary is included in the header when one
// exists.
type pdfHandler struct {
	service *generate.Service
	logger  *slog.Logger
}

// notesPDF handles POST /api/v1/notes/pdf.
func (h *pdfHandler) notesPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r, h.logger)
	if !ok {
		return
	}

	style := prompt.NoteStyle(req.Style)
	res, err := h.service.Notes(r.Context(), generate.NotesRequest{
		Request:                req.base(),
		Style:                  style,
		CustomStyleDescription: req.CustomStyleDescription,
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	var diagram *mindmap.Diagram
	if style == prompt.StyleMindMap {
		root, err := mindmap.Parse(res.Content)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		diagram = mindmap.Layout(root)
	}

	doc, err := render.Notes(h.header(r.Context(), "Notes", req, res), res.Content, diagram)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writePDF(w, res.Video.ID+"-notes.pdf", doc)
}

// quizPDF handles POST /api/v1/quiz/pdf.
func (h *pdfHandler) quizPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.Quiz(r.Context(), quizRequest(req))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	doc, err := render.Quiz(h.header(r.Context(), "Quiz", req, res), res.Content)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writePDF(w, res.Video.ID+"-quiz.pdf", doc)
}

// header builds the document header, attaching the cached summary when
// one already exists. A missing summary is not generated here: the PDF
// export must never trigger an extra LLM call beyond its own artifact.
func (h *pdfHandler) header(ctx context.Context, kind string, req generateRequest, res generate.Result) render.Header {
	hdr := render.Header{
		Kind:        kind,
		VideoTitle:  res.Video.Title,
		Channel:     res.Video.Channel,
		SourceURL:   video.WatchURL(res.Video.ID),
		GeneratedAt: time.Now(),
	}
	if summary, ok := h.service.CachedSummary(ctx, res.Video.ID, req.Model); ok {
		hdr.Summary = summary
	}
	return hdr
}

func writePDF(w http.ResponseWriter, filename string, doc []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
