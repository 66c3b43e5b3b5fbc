package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/notestream/notestream/internal/chat"
	"github.com/notestream/notestream/internal/generate"
	"github.com/notestream/notestream/internal/llm"
	"github.com/notestream/notestream/internal/mindmap"
	"github.com/notestream/notestream/internal/prompt"
	"github.com/notestream/notestream/internal/render"
	"github.com/notestream/notestream/internal/video"
)

// writeDomainError maps a pipeline error to its HTTP status and a
// stable machine-readable code. Validation failures are 400, terminal
// content problems are 422, upstream transport failures are 502.
func writeDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, video.ErrInvalidURL):
		WriteError(w, http.StatusBadRequest, "invalid_url", err.Error(), logger)
	case errors.Is(err, prompt.ErrMissingVariable):
		WriteError(w, http.StatusBadRequest, "missing_variable", err.Error(), logger)
	case errors.Is(err, generate.ErrUnsupportedQuizType):
		WriteError(w, http.StatusBadRequest, "unsupported_quiz_type", err.Error(), logger)
	case errors.Is(err, generate.ErrInvalidStyle):
		WriteError(w, http.StatusBadRequest, "invalid_style", err.Error(), logger)
	case errors.Is(err, generate.ErrInvalidDifficulty):
		WriteError(w, http.StatusBadRequest, "invalid_difficulty", err.Error(), logger)
	case errors.Is(err, chat.ErrMissingExamName):
		WriteError(w, http.StatusBadRequest, "missing_exam_name", err.Error(), logger)
	case errors.Is(err, chat.ErrEmptyQuestion):
		WriteError(w, http.StatusBadRequest, "empty_question", err.Error(), logger)
	case errors.Is(err, llm.ErrMissingCredential):
		WriteError(w, http.StatusUnauthorized, "missing_credential", err.Error(), logger)
	case errors.Is(err, video.ErrNoCaptions):
		WriteError(w, http.StatusUnprocessableEntity, "no_captions", video.NoCaptionsMessage, logger)
	case errors.Is(err, generate.ErrMalformedGeneration):
		WriteError(w, http.StatusUnprocessableEntity, "malformed_generation", err.Error(), logger)
	case errors.Is(err, mindmap.ErrInvalidOutline):
		WriteError(w, http.StatusUnprocessableEntity, "invalid_outline", err.Error(), logger)
	case errors.Is(err, render.ErrRenderFailure):
		WriteError(w, http.StatusUnprocessableEntity, "render_failure", err.Error(), logger)
	case errors.Is(err, video.ErrUnavailable), errors.Is(err, llm.ErrUnavailable):
		WriteError(w, http.StatusBadGateway, "upstream_unavailable", err.Error(), logger)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error", logger)
	}
}
