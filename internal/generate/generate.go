// Package generate orchestrates the study-artifact pipeline: resolve
// video context, check the cache, render the prompt, call the model
// once, validate the output, and persist the result.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/notestream/notestream/internal/cache"
	"github.com/notestream/notestream/internal/llm"
	"github.com/notestream/notestream/internal/log"
	"github.com/notestream/notestream/internal/prompt"
	"github.com/notestream/notestream/internal/video"
)

// ErrUnsupportedQuizType is returned for disabled or unknown quiz
// types before any transcript fetch or LLM call.
var ErrUnsupportedQuizType = errors.New("quiz type is not supported")

// ErrInvalidStyle is returned for an unknown note style.
var ErrInvalidStyle = errors.New("note style is not supported")

// ErrInvalidDifficulty is returned for an unknown quiz difficulty.
var ErrInvalidDifficulty = errors.New("difficulty is not supported")

// ErrMalformedGeneration indicates the model returned text that fails
// the structural check for the requested style. The result is not
// cached and not retried.
var ErrMalformedGeneration = errors.New("generated content failed structural validation")

// Service runs generation pipelines. Safe for concurrent use; each
// request is an independent straight-line pipeline sharing only the
// cache store.
type Service struct {
	llm     llm.Client
	store   *cache.Store
	fetcher video.Fetcher
	logger  log.Logger
}

func NewService(client llm.Client, store *cache.Store, fetcher video.Fetcher, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{llm: client, store: store, fetcher: fetcher, logger: logger}
}

// Request carries the parameters shared by all generation operations.
// APIKey is used for the single outbound LLM call and never persisted.
type Request struct {
	URL          string
	APIKey       string
	Model        string
	ForceRefresh bool
}

func (r Request) model() string {
	if r.Model == "" {
		return llm.DefaultModel
	}
	return r.Model
}

// Result is a generated or cached artifact plus the video context it
// was produced from.
type Result struct {
	Video      video.Metadata
	WordCount  int
	Content    string
	FromCache  bool
	VideoCache bool
}

// ResolveContext loads video metadata and transcript, serving from the
// cache when the video has been seen before. A force refresh skips the
// cached row and re-fetches both, so a video whose captions appeared
// after the first attempt picks them up. A video whose transcript
// resolves to the no-captions sentinel is terminal: the caller must
// pick another video.
func (s *Service) ResolveContext(ctx context.Context, rawURL string, forceRefresh bool) (video.Context, error) {
	videoID, err := video.ExtractID(rawURL)
	if err != nil {
		return video.Context{}, err
	}

	if !forceRefresh {
		meta, transcript, ok, err := s.store.GetVideo(ctx, videoID)
		if err != nil {
			return video.Context{}, fmt.Errorf("cache lookup: %w", err)
		}
		if ok {
			s.logger.DebugContext(ctx, "video context served from cache", "video_id", videoID)
			return video.Context{Video: meta, Transcript: transcript, Cached: true}, nil
		}
	}

	meta, err := s.fetcher.Metadata(ctx, videoID)
	if err != nil {
		return video.Context{}, err
	}
	transcript, err := s.fetcher.Transcript(ctx, videoID)
	if errors.Is(err, video.ErrNoCaptions) {
		transcript = video.NoCaptionsMessage
	} else if err != nil {
		return video.Context{}, err
	}

	if err := s.store.PutVideo(ctx, meta, transcript); err != nil {
		return video.Context{}, fmt.Errorf("cache video: %w", err)
	}
	return video.Context{Video: meta, Transcript: transcript, Cached: false}, nil
}

// Summary generates or returns the cached summary for a video.
func (s *Service) Summary(ctx context.Context, req Request) (Result, error) {
	vctx, err := s.ResolveContext(ctx, req.URL, req.ForceRefresh)
	if err != nil {
		return Result{}, err
	}

	key := cache.KeyParams{
		VideoID:               vctx.Video.ID,
		Kind:                  cache.KindSummary,
		Style:                 "auto",
		Model:                 req.model(),
		TranscriptFingerprint: cache.Fingerprint(vctx.Transcript),
	}.Hash()

	art := cache.Artifact{Kind: cache.KindSummary, Style: "auto"}
	produce := func() (string, error) {
		return llm.CompletePrompt(ctx, s.llm, prompt.Summary(promptVars(vctx, prompt.Vars{})), req.Model, req.APIKey)
	}
	return s.getOrGenerate(ctx, vctx, req, key, art, produce, validateNonEmpty)
}

// CachedSummary returns the cached summary text for a video under the
// given model, without generating anything. Used by PDF export to fill
// the document header for free.
func (s *Service) CachedSummary(ctx context.Context, videoID, model string) (string, bool) {
	_, transcript, ok, err := s.store.GetVideo(ctx, videoID)
	if err != nil || !ok {
		return "", false
	}

	if model == "" {
		model = llm.DefaultModel
	}
	key := cache.KeyParams{
		VideoID:               videoID,
		Kind:                  cache.KindSummary,
		Style:                 "auto",
		Model:                 model,
		TranscriptFingerprint: cache.Fingerprint(transcript),
	}.Hash()

	art, err := s.store.GetArtifact(ctx, key)
	if err != nil || art == nil {
		return "", false
	}
	return art.Content, true
}

// NotesRequest parameterizes note generation.
type NotesRequest struct {
	Request
	Style                  prompt.NoteStyle
	CustomStyleDescription string
}

// Notes generates or returns cached study notes in the requested style.
func (s *Service) Notes(ctx context.Context, req NotesRequest) (Result, error) {
	if !req.Style.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidStyle, req.Style)
	}
	if req.Style == prompt.StyleCustom && strings.TrimSpace(req.CustomStyleDescription) == "" {
		return Result{}, fmt.Errorf("%w: custom_style_description", prompt.ErrMissingVariable)
	}

	vctx, err := s.ResolveContext(ctx, req.URL, req.ForceRefresh)
	if err != nil {
		return Result{}, err
	}

	promptText, err := prompt.Notes(req.Style, promptVars(vctx, prompt.Vars{
		CustomStyleDescription: req.CustomStyleDescription,
	}))
	if err != nil {
		return Result{}, err
	}

	key := cache.KeyParams{
		VideoID:               vctx.Video.ID,
		Kind:                  cache.KindNotes,
		Style:                 string(req.Style),
		Model:                 req.model(),
		CustomDescription:     req.CustomStyleDescription,
		TranscriptFingerprint: cache.Fingerprint(vctx.Transcript),
	}.Hash()

	art := cache.Artifact{Kind: cache.KindNotes, Style: string(req.Style)}
	produce := func() (string, error) {
		return llm.CompletePrompt(ctx, s.llm, promptText, req.Model, req.APIKey)
	}
	return s.getOrGenerate(ctx, vctx, req.Request, key, art, produce, validatorForStyle(req.Style))
}

// QuizRequest parameterizes quiz generation.
type QuizRequest struct {
	Request
	Type                  prompt.QuizType
	Difficulty            prompt.Difficulty
	ExamName              string
	CustomQuizDescription string
}

// Quiz generates or returns a cached quiz. QuizNone short-circuits to
// a fixed skip marker without an LLM call or a cache write; disabled
// types are rejected before any transcript fetch.
func (s *Service) Quiz(ctx context.Context, req QuizRequest) (Result, error) {
	if req.Type == prompt.QuizNone {
		// Metadata is still resolved (usually a cache hit) so callers
		// can label the skipped quiz with the video it belongs to.
		vctx, err := s.ResolveContext(ctx, req.URL, false)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Video:      vctx.Video,
			WordCount:  vctx.WordCount(),
			VideoCache: vctx.Cached,
			Content:    prompt.SkippedQuizMarkdown,
		}, nil
	}
	if !req.Type.Valid() || req.Type.Disabled() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedQuizType, req.Type)
	}
	if !req.Difficulty.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidDifficulty, req.Difficulty)
	}
	if req.Type == prompt.QuizExamStyle && strings.TrimSpace(req.ExamName) == "" {
		return Result{}, fmt.Errorf("%w: exam_name", prompt.ErrMissingVariable)
	}
	if req.Type == prompt.QuizCustom && strings.TrimSpace(req.CustomQuizDescription) == "" {
		return Result{}, fmt.Errorf("%w: custom_quiz_description", prompt.ErrMissingVariable)
	}

	vctx, err := s.ResolveContext(ctx, req.URL, req.ForceRefresh)
	if err != nil {
		return Result{}, err
	}

	promptText, err := prompt.Quiz(req.Type, promptVars(vctx, prompt.Vars{
		Difficulty:            req.Difficulty,
		ExamName:              req.ExamName,
		CustomQuizDescription: req.CustomQuizDescription,
	}))
	if err != nil {
		return Result{}, err
	}

	key := cache.KeyParams{
		VideoID:               vctx.Video.ID,
		Kind:                  cache.KindQuiz,
		Style:                 string(req.Type),
		Difficulty:            string(req.Difficulty),
		Model:                 req.model(),
		ExamName:              req.ExamName,
		CustomDescription:     req.CustomQuizDescription,
		TranscriptFingerprint: cache.Fingerprint(vctx.Transcript),
	}.Hash()

	art := cache.Artifact{
		Kind:       cache.KindQuiz,
		Style:      string(req.Type),
		Difficulty: string(req.Difficulty),
	}
	produce := func() (string, error) {
		return llm.CompletePrompt(ctx, s.llm, promptText, req.Model, req.APIKey)
	}
	return s.getOrGenerate(ctx, vctx, req.Request, key, art, produce, validateNonEmpty)
}

// getOrGenerate is the shared cache-or-produce step. Validation runs
// before the cache write so a malformed generation is never persisted.
func (s *Service) getOrGenerate(
	ctx context.Context,
	vctx video.Context,
	req Request,
	key string,
	art cache.Artifact,
	produce func() (string, error),
	validate func(string) error,
) (Result, error) {
	// A no-captions video is terminal regardless of how its context was
	// resolved: nothing useful can be generated from the placeholder.
	if vctx.Transcript == video.NoCaptionsMessage {
		return Result{}, video.ErrNoCaptions
	}

	result := Result{
		Video:      vctx.Video,
		WordCount:  vctx.WordCount(),
		VideoCache: vctx.Cached,
	}

	if !req.ForceRefresh {
		cached, err := s.store.GetArtifact(ctx, key)
		if err != nil {
			return Result{}, fmt.Errorf("cache lookup: %w", err)
		}
		if cached != nil {
			s.logger.InfoContext(ctx, "artifact served from cache",
				"video_id", vctx.Video.ID, "kind", art.Kind, "style", art.Style)
			result.Content = cached.Content
			result.FromCache = true
			return result, nil
		}
	}

	content, err := produce()
	if err != nil {
		return Result{}, err
	}
	if err := validate(content); err != nil {
		return Result{}, err
	}

	art.Content = content
	if err := s.store.PutArtifact(ctx, key, vctx.Video.ID, art, req.ForceRefresh); err != nil {
		return Result{}, fmt.Errorf("cache artifact: %w", err)
	}

	s.logger.InfoContext(ctx, "artifact generated",
		"video_id", vctx.Video.ID, "kind", art.Kind, "style", art.Style,
		"chars", len(content))
	result.Content = content
	return result, nil
}

func promptVars(vctx video.Context, extra prompt.Vars) prompt.Vars {
	extra.Title = vctx.Video.Title
	extra.Channel = vctx.Video.Channel
	extra.Transcript = vctx.Transcript
	return extra
}

func validateNonEmpty(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: empty response", ErrMalformedGeneration)
	}
	return nil
}

// validatorForStyle returns the light structural check for a note
// style. Mind-map notes must contain nested list items or the outline
// parser downstream has nothing to build from.
func validatorForStyle(style prompt.NoteStyle) func(string) error {
	if style != prompt.StyleMindMap {
		return validateNonEmpty
	}
	return func(content string) error {
		if err := validateNonEmpty(content); err != nil {
			return err
		}
		top, nested := false, false
		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimLeft(line, " \t")
			if !strings.HasPrefix(trimmed, "- ") && !strings.HasPrefix(trimmed, "* ") {
				continue
			}
			if len(line) > len(trimmed) {
				nested = true
			} else {
				top = true
			}
		}
		if !top || !nested {
			return fmt.Errorf("%w: mind map output is not a nested list", ErrMalformedGeneration)
		}
		return nil
	}
}
