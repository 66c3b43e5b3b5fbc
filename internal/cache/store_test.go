package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notestream/notestream/internal/log"
	"github.com/notestream/notestream/internal/video"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"), log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testMeta() video.Metadata {
	return video.Metadata{
		ID:              "dQw4w9WgXcQ",
		URL:             "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:           "Graph Theory Basics",
		Channel:         "CS Basics",
		DurationSeconds: 612,
		PublishDate:     "2024-01-15",
		Thumbnail:       "https://i.ytimg.com/vi/dQw4w9WgXcQ/hq720.jpg",
		Description:     "An introduction to graphs.",
	}
}

func TestVideoRoundTrip(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	_, _, ok, err := store.GetVideo(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.PutVideo(ctx, testMeta(), "the transcript"))

	meta, transcript, ok, err := store.GetVideo(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testMeta(), meta)
	assert.Equal(t, "the transcript", transcript)
}

func TestPutVideoUpserts(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutVideo(ctx, testMeta(), "v1"))

	updated := testMeta()
	updated.Title = "Graph Theory Basics (revised)"
	require.NoError(t, store.PutVideo(ctx, updated, "v2"))

	meta, transcript, ok, err := store.GetVideo(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Graph Theory Basics (revised)", meta.Title)
	assert.Equal(t, "v2", transcript)
}

func TestArtifactRoundTrip(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.GetArtifact(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	art := Artifact{Kind: KindNotes, Style: "cornell", Content: "# Notes"}
	require.NoError(t, store.PutArtifact(ctx, "key1", "dQw4w9WgXcQ", art, false))

	got, err = store.GetArtifact(ctx, "key1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, KindNotes, got.Kind)
	assert.Equal(t, "cornell", got.Style)
	assert.Equal(t, "# Notes", got.Content)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPutArtifactFirstWriterWins(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	first := Artifact{Kind: KindSummary, Style: "auto", Content: "first"}
	second := Artifact{Kind: KindSummary, Style: "auto", Content: "second"}

	require.NoError(t, store.PutArtifact(ctx, "k", "dQw4w9WgXcQ", first, false))
	require.NoError(t, store.PutArtifact(ctx, "k", "dQw4w9WgXcQ", second, false))

	got, err := store.GetArtifact(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Content)
}

func TestPutArtifactOverwrite(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	first := Artifact{Kind: KindQuiz, Style: "multiple_choice", Difficulty: "easy", Content: "old"}
	second := Artifact{Kind: KindQuiz, Style: "multiple_choice", Difficulty: "easy", Content: "new"}

	require.NoError(t, store.PutArtifact(ctx, "k", "dQw4w9WgXcQ", first, false))
	require.NoError(t, store.PutArtifact(ctx, "k", "dQw4w9WgXcQ", second, true))

	got, err := store.GetArtifact(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Content)
}

func TestInvalidate(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	art := Artifact{Kind: KindNotes, Style: "hierarchical", Content: "x"}
	require.NoError(t, store.PutArtifact(ctx, "k", "dQw4w9WgXcQ", art, false))
	require.NoError(t, store.Invalidate(ctx, "k"))

	got, err := store.GetArtifact(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Invalidating an absent key is not an error.
	require.NoError(t, store.Invalidate(ctx, "k"))
}
