package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/notestream/notestream/internal/generate"
	"github.com/notestream/notestream/internal/mindmap"
	"github.com/notestream/notestream/internal/prompt"
	"github.com/notestream/notestream/internal/video"
)

// maxRequestBody caps JSON request bodies at 1 MiB.
const maxRequestBody = 1 << 20

// generateHandler serves the summary, notes, and quiz endpoints.
type generateHandler struct {
	service *generate.Service
	logger  *slog.Logger
}

// generateRequest is the shared request shape for generation
// endpoints. The API key may come from the body or the X-API-Key
// header; the header wins. It is used for the single outbound LLM call
// and never stored.
type generateRequest struct {
	URL          string `json:"url"`
	APIKey       string `json:"api_key,omitempty"`
	Model        string `json:"model,omitempty"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`

	// Notes parameters
	Style                  string `json:"style,omitempty"`
	CustomStyleDescription string `json:"custom_style_description,omitempty"`

	// Quiz parameters
	QuizType              string `json:"quiz_type,omitempty"`
	Difficulty            string `json:"difficulty,omitempty"`
	ExamName              string `json:"exam_name,omitempty"`
	CustomQuizDescription string `json:"custom_quiz_description,omitempty"`
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (generateRequest, bool) {
	var req generateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON", logger)
		return generateRequest{}, false
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		req.APIKey = key
	}
	if strings.TrimSpace(req.URL) == "" {
		WriteError(w, http.StatusBadRequest, "invalid_url", "url is required", logger)
		return generateRequest{}, false
	}
	return req, true
}

func (req generateRequest) base() generate.Request {
	return generate.Request{
		URL:          req.URL,
		APIKey:       req.APIKey,
		Model:        req.Model,
		ForceRefresh: req.ForceRefresh,
	}
}

// videoResponse is the metadata block echoed with every generation.
type videoResponse struct {
	video.Metadata
	WordCount int  `json:"transcript_word_count"`
	Cached    bool `json:"video_cached"`
}

func videoInfo(res generate.Result) videoResponse {
	return videoResponse{Metadata: res.Video, WordCount: res.WordCount, Cached: res.VideoCache}
}

type summaryResponse struct {
	Video   videoResponse `json:"video"`
	Summary string        `json:"summary"`
	Cached  bool          `json:"cached"`
}

// summary handles POST /api/v1/summary.
func (h *generateHandler) summary(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.Summary(r.Context(), req.base())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, summaryResponse{
		Video:   videoInfo(res),
		Summary: res.Content,
		Cached:  res.FromCache,
	})
}

type notesResponse struct {
	Video    videoResponse `json:"video"`
	Style    string        `json:"style"`
	Markdown string        `json:"markdown"`
	SVG      string        `json:"svg,omitempty"`
	Cached   bool          `json:"cached"`
}

// notes handles POST /api/v1/notes. Mind-map notes additionally carry
// the laid-out diagram as an SVG string.
func (h *generateHandler) notes(w http.ResponseWriter, r *http.Request) {
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

	resp := notesResponse{
		Video:    videoInfo(res),
		Style:    string(style),
		Markdown: res.Content,
		Cached:   res.FromCache,
	}
	if style == prompt.StyleMindMap {
		root, err := mindmap.Parse(res.Content)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		resp.SVG = mindmap.SVG(mindmap.Layout(root))
	}

	WriteJSON(w, http.StatusOK, resp)
}

type quizResponse struct {
	Video      videoResponse `json:"video"`
	QuizType   string        `json:"quiz_type"`
	Difficulty string        `json:"difficulty,omitempty"`
	Markdown   string        `json:"markdown"`
	Cached     bool          `json:"cached"`
}

// quiz handles POST /api/v1/quiz.
func (h *generateHandler) quiz(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.Quiz(r.Context(), quizRequest(req))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, quizResponse{
		Video:      videoInfo(res),
		QuizType:   req.QuizType,
		Difficulty: req.Difficulty,
		Markdown:   res.Content,
		Cached:     res.FromCache,
	})
}

func quizRequest(req generateRequest) generate.QuizRequest {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = string(prompt.DifficultyMedium)
	}
	return generate.QuizRequest{
		Request:               req.base(),
		Type:                  prompt.QuizType(req.QuizType),
		Difficulty:            prompt.Difficulty(difficulty),
		ExamName:              req.ExamName,
		CustomQuizDescription: req.CustomQuizDescription,
	}
}
