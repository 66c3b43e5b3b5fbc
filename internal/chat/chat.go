// Package chat answers follow-up questions grounded in previously
// generated study notes.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/notestream/notestream/internal/llm"
	"github.com/notestream/notestream/internal/log"
)

// ErrMissingExamName is returned when exam mode is requested without a
// target exam or competition name.
var ErrMissingExamName = errors.New("exam mode requires an exam name")

// ErrEmptyQuestion is returned when the question is blank after trimming.
var ErrEmptyQuestion = errors.New("question must not be empty")

// maxHistoryTurns caps how many prior conversation messages are sent
// with each question. Older turns are dropped; the notes context is
// always resent in full.
const maxHistoryTurns = 12

const tutorSystemPrompt = `You are an expert tutor teaching a high-school student.

Goals:
- Explain clearly, accurately, and patiently.
- Use the provided video notes/context as your primary source.
- You may extend beyond the video when helpful, especially to fill background knowledge, give intuition, or provide better examples.

Style requirements:
- Use simple language first, then add technical detail if needed.
- Break explanations into small steps.
- Define jargon the first time you use it.
- Prefer concrete examples and analogies relevant to high-school learners.
- Keep a supportive, professional tone.

Grounding rules:
- Do not invent claims about what the video said.
- If something is from the notes/video, present it as "From the notes".
- If something goes beyond the notes/video, label it as "Beyond the video".
- If uncertain, say so clearly and provide the most likely explanation.

Response format:
1) Direct answer (1-3 sentences)
2) Step-by-step explanation
3) Example
4) Quick check question for the student`

const examModeSystemPrompt = "Exam mode is enabled. Adapt explanations to the target exam or competition and " +
	"incorporate likely syllabus scope, question styles, and scoring expectations. " +
	"If exact official details are uncertain, state assumptions explicitly."

// Question is a single notes-grounded chat request.
type Question struct {
	Notes    string
	Question string
	History  []llm.Message
	ExamMode bool
	ExamName string
}

// Assemble builds the message sequence for a tutoring exchange: tutor
// system prompt, optional exam-mode system prompt, the full notes as
// context, the trailing window of history, then the new question.
func Assemble(q Question) ([]llm.Message, error) {
	question := strings.TrimSpace(q.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	examName := strings.TrimSpace(q.ExamName)
	if q.ExamMode && examName == "" {
		return nil, ErrMissingExamName
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: tutorSystemPrompt},
	}

	contextChunks := []string{"Study notes context:\n\n" + q.Notes}
	if q.ExamMode {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: examModeSystemPrompt})
		contextChunks = append(contextChunks, "Target exam or competition: "+examName)
	}
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: strings.Join(contextChunks, "\n\n"),
	})

	history := q.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	messages = append(messages, history...)

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})
	return messages, nil
}

// Service answers notes-grounded questions through an LLM client.
type Service struct {
	llm    llm.Client
	logger log.Logger
}

func NewService(client llm.Client, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{llm: client, logger: logger}
}

// Ask sends an assembled tutoring exchange to the model and returns
// its answer. The API key is used for this call only.
func (s *Service) Ask(ctx context.Context, q Question, apiKey, model string) (string, error) {
	messages, err := Assemble(q)
	if err != nil {
		return "", err
	}

	s.logger.DebugContext(ctx, "asking notes question",
		"history_len", len(q.History), "exam_mode", q.ExamMode)

	answer, err := s.llm.Complete(ctx, llm.Request{
		Messages: messages,
		Model:    model,
		APIKey:   apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return answer, nil
}
