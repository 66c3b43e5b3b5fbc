// Package llm abstracts the text-generation capability behind a small
// interface so the orchestrator and the chat assembler stay testable
// with a deterministic stub.
//
// The concrete client speaks the OpenAI-compatible chat-completions
// protocol. The default endpoint is Alibaba Bailian (DashScope), but
// any compatible base URL works.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/notestream/notestream/internal/log"
)

// DefaultBaseURL is the Bailian OpenAI-compatible endpoint.
const DefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// DefaultModel is used when a request does not name a model.
const DefaultModel = "qwen3.5-plus"

// completionTemperature keeps generations factual and stable.
const completionTemperature = 0.3

var (
	// ErrMissingCredential indicates no API key was supplied.
	ErrMissingCredential = errors.New("API key is required")

	// ErrUnavailable indicates the upstream LLM endpoint failed at the
	// transport or protocol level.
	ErrUnavailable = errors.New("LLM service unavailable")
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat-completion message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request carries one completion call. The credential is request
// scoped: it is held for the duration of the call and never persisted
// or logged.
type Request struct {
	Messages []Message
	Model    string // empty selects DefaultModel
	APIKey   string
}

// Client is the text-generation capability.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// HTTPClient calls an OpenAI-compatible chat-completions endpoint.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  log.Logger
}

// NewHTTPClient creates a client for the given base URL.
// An empty baseURL selects DefaultBaseURL.
func NewHTTPClient(baseURL string, logger log.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}
}

type completionPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the messages and returns the model's text.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.APIKey == "" {
		return "", ErrMissingCredential
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	payload := completionPayload{
		Model:       model,
		Messages:    req.Messages,
		Temperature: completionTemperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding completion payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrUnavailable)
	}

	c.logger.Debug("completion finished",
		"model", model,
		"messages", len(req.Messages),
		"duration", time.Since(start))

	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

// StudySystemPrompt is prepended to every single-prompt generation.
const StudySystemPrompt = "You produce factual, structured study content in Markdown."

// CompletePrompt wraps a bare prompt in the study system message and a
// single user turn.
func CompletePrompt(ctx context.Context, c Client, promptText, model, apiKey string) (string, error) {
	return c.Complete(ctx, Request{
		Messages: []Message{
			{Role: RoleSystem, Content: StudySystemPrompt},
			{Role: RoleUser, Content: promptText},
		},
		Model:  model,
		APIKey: apiKey,
	})
}
