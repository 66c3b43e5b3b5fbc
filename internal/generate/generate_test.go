package generate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notestream/notestream/internal/cache"
	"github.com/notestream/notestream/internal/log"
	"github.com/notestream/notestream/internal/prompt"
	"github.com/notestream/notestream/internal/testutil"
	"github.com/notestream/notestream/internal/video"
)

const (
	testVideoID = "dQw4w9WgXcQ"
	testURL     = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
)

type fixture struct {
	svc     *Service
	llm     *testutil.MockLLM
	fetcher *testutil.StubFetcher
	store   *cache.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mock := testutil.NewMockLLM("generated content")
	fetcher := testutil.NewStubFetcher()
	fetcher.AddVideo(video.Metadata{
		ID:      testVideoID,
		URL:     testURL,
		Title:   "Graph Theory Basics",
		Channel: "CS Basics",
	}, "a graph is a set of vertices and edges")

	return &fixture{
		svc:     NewService(mock, store, fetcher, log.NewNop()),
		llm:     mock,
		fetcher: fetcher,
		store:   store,
	}
}

func baseRequest() Request {
	return Request{URL: testURL, APIKey: "sk-test"}
}

func TestSummaryGeneratesThenCaches(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.llm.AddResponse("graph", "## Summary\n\nGraphs are sets of vertices.")

	first, err := f.svc.Summary(ctx, baseRequest())
	require.NoError(t, err)
	assert.Equal(t, "## Summary\n\nGraphs are sets of vertices.", first.Content)
	assert.False(t, first.FromCache)
	assert.Equal(t, "Graph Theory Basics", first.Video.Title)
	assert.Equal(t, 9, first.WordCount)
	assert.Equal(t, 1, f.llm.CallCount())

	second, err := f.svc.Summary(ctx, baseRequest())
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)
	assert.True(t, second.FromCache)
	assert.True(t, second.VideoCache)
	assert.Equal(t, 1, f.llm.CallCount(), "cache hit must not invoke the model")
}

func TestSummaryForceRefreshRegenerates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Summary(ctx, baseRequest())
	require.NoError(t, err)

	req := baseRequest()
	req.ForceRefresh = true
	res, err := f.svc.Summary(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 2, f.llm.CallCount())
}

func TestSummaryModelChangesCacheKey(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Summary(ctx, baseRequest())
	require.NoError(t, err)

	req := baseRequest()
	req.Model = "another-model"
	res, err := f.svc.Summary(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.FromCache, "different model must not share the cache entry")
	assert.Equal(t, 2, f.llm.CallCount())
}

func TestNotesInvalidStyle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Notes(context.Background(), NotesRequest{
		Request: baseRequest(),
		Style:   prompt.NoteStyle("outline"),
	})
	require.ErrorIs(t, err, ErrInvalidStyle)
	assert.Empty(t, f.fetcher.Lookups(), "rejected before any fetch")
}

func TestNotesCustomRequiresDescription(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Notes(context.Background(), NotesRequest{
		Request: baseRequest(),
		Style:   prompt.StyleCustom,
	})
	require.ErrorIs(t, err, prompt.ErrMissingVariable)
	assert.Empty(t, f.fetcher.Lookups())
	assert.Zero(t, f.llm.CallCount())
}

func TestNotesMindMapStructuralValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.llm.AddResponse("mind map", "Just prose without any list structure.")

	_, err := f.svc.Notes(ctx, NotesRequest{
		Request: baseRequest(),
		Style:   prompt.StyleMindMap,
	})
	require.ErrorIs(t, err, ErrMalformedGeneration)

	// A failed generation must never be cached: the next attempt calls
	// the model again.
	f.llm.Reset()
	f.llm.AddResponse("mind map", "- Root\n  - Child A\n  - Child B")
	res, err := f.svc.Notes(ctx, NotesRequest{
		Request: baseRequest(),
		Style:   prompt.StyleMindMap,
	})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, f.llm.CallCount())
}

func TestNotesHierarchicalCached(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	req := NotesRequest{Request: baseRequest(), Style: prompt.StyleHierarchical}

	first, err := f.svc.Notes(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.Notes(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, f.llm.CallCount())
}

func TestQuizNoneSkipsGeneration(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.svc.Quiz(context.Background(), QuizRequest{
		Request: baseRequest(),
		Type:    prompt.QuizNone,
	})
	require.NoError(t, err)
	assert.Equal(t, prompt.SkippedQuizMarkdown, res.Content)
	assert.Zero(t, f.llm.CallCount())

	// Metadata is still resolved so the skipped quiz can be labeled.
	assert.Equal(t, "Graph Theory Basics", res.Video.Title)
	assert.Equal(t, []string{testVideoID}, f.fetcher.Lookups())
}

func TestQuizDisabledTypesRejectedBeforeFetch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	for _, quizType := range []prompt.QuizType{prompt.QuizFlashcards, prompt.QuizCrossword} {
		_, err := f.svc.Quiz(context.Background(), QuizRequest{
			Request:    baseRequest(),
			Type:       quizType,
			Difficulty: prompt.DifficultyMedium,
		})
		require.ErrorIs(t, err, ErrUnsupportedQuizType, "type %s", quizType)
	}
	assert.Empty(t, f.fetcher.Lookups())
	assert.Zero(t, f.llm.CallCount())
}

func TestQuizExamStyleRequiresExamName(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Quiz(context.Background(), QuizRequest{
		Request:    baseRequest(),
		Type:       prompt.QuizExamStyle,
		Difficulty: prompt.DifficultyHard,
	})
	require.ErrorIs(t, err, prompt.ErrMissingVariable)
	assert.Empty(t, f.fetcher.Lookups())
}

func TestQuizDifficultyChangesCacheKey(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	easy := QuizRequest{Request: baseRequest(), Type: prompt.QuizMultipleChoice, Difficulty: prompt.DifficultyEasy}
	hard := QuizRequest{Request: baseRequest(), Type: prompt.QuizMultipleChoice, Difficulty: prompt.DifficultyHard}

	_, err := f.svc.Quiz(ctx, easy)
	require.NoError(t, err)
	res, err := f.svc.Quiz(ctx, hard)
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	assert.Equal(t, 2, f.llm.CallCount())
}

func TestNoCaptionsIsTerminal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.FailTranscriptWith(video.ErrNoCaptions)

	_, err := f.svc.Summary(ctx, baseRequest())
	require.ErrorIs(t, err, video.ErrNoCaptions)
	assert.EqualError(t, err, video.NoCaptionsMessage)
	assert.Zero(t, f.llm.CallCount())

	// The video context (with the placeholder transcript) is cached,
	// and stays terminal on the cached path too.
	_, err = f.svc.Summary(ctx, baseRequest())
	require.ErrorIs(t, err, video.ErrNoCaptions)
	assert.Equal(t, []string{testVideoID}, f.fetcher.Lookups(), "second request served from video cache")
}

func TestForceRefreshRefetchesVideoContext(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	// First attempt: no captions yet, placeholder transcript is cached.
	f.fetcher.FailTranscriptWith(video.ErrNoCaptions)
	_, err := f.svc.Summary(ctx, baseRequest())
	require.ErrorIs(t, err, video.ErrNoCaptions)

	// Captions become available later.
	f.fetcher.FailTranscriptWith(nil)

	// A plain request still serves the cached placeholder and stays
	// terminal.
	_, err = f.svc.Summary(ctx, baseRequest())
	require.ErrorIs(t, err, video.ErrNoCaptions)
	assert.Equal(t, []string{testVideoID}, f.fetcher.Lookups())

	// Force refresh bypasses the cached row, re-fetches metadata and
	// transcript, and proceeds with the real captions.
	f.llm.AddResponse("graph", "## Summary\n\nGraphs.")
	req := baseRequest()
	req.ForceRefresh = true
	res, err := f.svc.Summary(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "## Summary\n\nGraphs.", res.Content)
	assert.False(t, res.VideoCache)
	assert.Equal(t, []string{testVideoID, testVideoID}, f.fetcher.Lookups())

	// The refreshed transcript replaced the placeholder, so subsequent
	// plain requests hit the artifact cache.
	res, err = f.svc.Summary(ctx, baseRequest())
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 1, f.llm.CallCount())
}

func TestInvalidURLRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := baseRequest()
	req.URL = "https://example.com/watch?v=dQw4w9WgXcQ"
	_, err := f.svc.Summary(context.Background(), req)
	require.ErrorIs(t, err, video.ErrInvalidURL)
}

func TestMetadataFailurePropagates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.fetcher.FailMetadataWith(video.ErrUnavailable)
	_, err := f.svc.Summary(context.Background(), baseRequest())
	require.ErrorIs(t, err, video.ErrUnavailable)
	assert.Zero(t, f.llm.CallCount())
}

func TestCachedSummary(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, ok := f.svc.CachedSummary(ctx, testVideoID, "")
	assert.False(t, ok, "nothing cached yet")

	f.llm.AddResponse("graph", "the summary text")
	_, err := f.svc.Summary(ctx, baseRequest())
	require.NoError(t, err)

	summary, ok := f.svc.CachedSummary(ctx, testVideoID, "")
	require.True(t, ok)
	assert.Equal(t, "the summary text", summary)

	_, ok = f.svc.CachedSummary(ctx, testVideoID, "another-model")
	assert.False(t, ok, "summary is model-scoped")
}
