// Package video resolves YouTube video identity, metadata, and
// caption transcripts. It is the transcript provider collaborator for
// the generation pipeline: everything downstream consumes a normalized
// transcript blob plus immutable metadata.
package video

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// NoCaptionsMessage is the user-facing message for videos without any
// usable caption track. Callers surface it verbatim.
const NoCaptionsMessage = "This video has no available captions. Please try a different video."

var (
	// ErrInvalidURL indicates the input is not a recognized YouTube video link.
	ErrInvalidURL = errors.New("only standard YouTube video URLs are supported")

	// ErrNoCaptions indicates the video has no retrievable captions.
	// Terminal: the user must pick another video.
	ErrNoCaptions = errors.New(NoCaptionsMessage)

	// ErrUnavailable indicates YouTube could not be reached or the video
	// is private, removed, or otherwise inaccessible.
	ErrUnavailable = errors.New("the video may be unavailable, private, or invalid")
)

// Metadata describes a video. Immutable once fetched.
type Metadata struct {
	ID              string `json:"video_id"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	PublishDate     string `json:"publish_date,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Context bundles everything one generation request needs from the
// provider: metadata plus the normalized transcript.
type Context struct {
	Video      Metadata
	Transcript string
	Cached     bool
}

// WordCount returns the number of whitespace-separated words in the
// transcript.
func (c Context) WordCount() int {
	return len(strings.Fields(c.Transcript))
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractID parses a YouTube URL and returns the canonical 11-character
// video id. Supported forms: youtube.com/watch?v=, youtube.com/shorts/,
// and youtu.be/ short links.
func ExtractID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	host := strings.ToLower(parsed.Hostname())

	if host == "youtu.be" || host == "www.youtu.be" {
		candidate := strings.Trim(parsed.Path, "/")
		if videoIDPattern.MatchString(candidate) {
			return candidate, nil
		}
	}

	if strings.HasSuffix(host, "youtube.com") {
		if parsed.Path == "/watch" {
			candidate := parsed.Query().Get("v")
			if videoIDPattern.MatchString(candidate) {
				return candidate, nil
			}
		}
		if rest, ok := strings.CutPrefix(parsed.Path, "/shorts/"); ok {
			candidate, _, _ := strings.Cut(rest, "/")
			if videoIDPattern.MatchString(candidate) {
				return candidate, nil
			}
		}
	}

	return "", ErrInvalidURL
}

// WatchURL returns the canonical watch-page URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeText collapses whitespace runs to single spaces and trims.
func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
