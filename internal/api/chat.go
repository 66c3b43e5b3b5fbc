package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/notestream/notestream/internal/chat"
	"github.com/notestream/notestream/internal/llm"
)

// chatHandler serves the notes-grounded Q&A endpoint.
type chatHandler struct {
	service *chat.Service
	logger  *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Notes    string        `json:"notes"`
	Question string        `json:"question"`
	History  []chatMessage `json:"history,omitempty"`
	ExamMode bool          `json:"exam_mode,omitempty"`
	ExamName string        `json:"exam_name,omitempty"`
	APIKey   string        `json:"api_key,omitempty"`
	Model    string        `json:"model,omitempty"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// ask handles POST /api/v1/chat.
func (h *chatHandler) ask(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON", h.logger)
		return
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		req.APIKey = key
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, m := range req.History {
		role := llm.Role(m.Role)
		if role != llm.RoleUser && role != llm.RoleAssistant {
			WriteError(w, http.StatusBadRequest, "invalid_request",
				"history roles must be user or assistant", h.logger)
			return
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}

	answer, err := h.service.Ask(r.Context(), chat.Question{
		Notes:    req.Notes,
		Question: req.Question,
		History:  history,
		ExamMode: req.ExamMode,
		ExamName: req.ExamName,
	}, req.APIKey, req.Model)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, chatResponse{Answer: answer})
}
