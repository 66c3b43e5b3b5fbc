package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with extras", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s&list=PL1", "dQw4w9WgXcQ"},
		{"no www", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=xyz", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractIDRejectsNonVideoURLs(t *testing.T) {
	t.Parallel()

	bad := []string{
		"",
		"not a url at all://",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/playlist?list=PL1",
		"https://www.youtube.com/watch?v=tooshort",
		"https://www.youtube.com/watch?v=waytoolongid42",
		"https://youtu.be/",
	}
	for _, url := range bad {
		_, err := ExtractID(url)
		assert.ErrorIs(t, err, ErrInvalidURL, "url %q", url)
	}
}

func TestWatchURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ"))
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	c := Context{Transcript: "  one\ttwo \n three  "}
	assert.Equal(t, 3, c.WordCount())
	assert.Equal(t, 0, Context{}.WordCount())
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", normalizeText("  a\n b\t\tc "))
	assert.Equal(t, "", normalizeText(" \n\t "))
}
