package video

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
)

// preferredLanguages is the caption language preference order; any
// remaining track is used as a last resort.
var preferredLanguages = []string{"en", "en-US", "en-GB"}

// captionTrack is the watch page's description of one caption track.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

// segment is one caption cue from the timedtext document.
type segment struct {
	Start float64 `xml:"start,attr"`
	Text  string  `xml:",chardata"`
}

type timedText struct {
	Segments []segment `xml:"text"`
}

// Transcript fetches the caption text for a video, preferring English
// tracks, and reduces it to a single normalized blob. Every miss
// (no tracks, empty tracks, unfetchable tracks) collapses to
// ErrNoCaptions, which is terminal for the request.
func (f *HTTPFetcher) Transcript(ctx context.Context, videoID string) (string, error) {
	tracks, err := f.captionTracks(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", ErrNoCaptions
	}

	for _, track := range orderTracks(tracks) {
		text, err := f.fetchTrack(ctx, track.BaseURL)
		if err != nil {
			f.logger.Warn("caption track fetch failed",
				"video_id", videoID, "language", track.LanguageCode, "error", err)
			continue
		}
		if text != "" {
			return text, nil
		}
	}

	return "", ErrNoCaptions
}

// captionTracks extracts the caption track list the watch page embeds
// in its player response JSON.
func (f *HTTPFetcher) captionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	resp, err := f.get(ctx, WatchURL(videoID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: watch page status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading watch page: %v", ErrUnavailable, err)
	}

	return parseCaptionTracks(string(body)), nil
}

// parseCaptionTracks locates the "captionTracks" array inside the
// watch page HTML and decodes the first complete JSON value after it.
func parseCaptionTracks(page string) []captionTrack {
	const marker = `"captionTracks":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil
	}

	var tracks []captionTrack
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&tracks); err != nil {
		return nil
	}
	return tracks
}

// orderTracks returns tracks in preference order: exact language
// matches first (manual captions before auto-generated within a
// language), then everything else in source order.
func orderTracks(tracks []captionTrack) []captionTrack {
	ordered := make([]captionTrack, 0, len(tracks))
	used := make(map[int]bool, len(tracks))

	for _, lang := range preferredLanguages {
		for _, asr := range []bool{false, true} {
			for i, t := range tracks {
				if used[i] || t.LanguageCode != lang || (t.Kind == "asr") != asr {
					continue
				}
				ordered = append(ordered, t)
				used[i] = true
			}
		}
	}
	for i, t := range tracks {
		if !used[i] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// fetchTrack downloads one timedtext document and flattens its cues
// into normalized text.
func (f *HTTPFetcher) fetchTrack(ctx context.Context, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return "", err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("timedtext status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", err
	}
	return flattenTimedText(body)
}

// flattenTimedText parses a timedtext XML document and joins its cues
// into one normalized blob. Cue text is HTML-unescaped a second time
// because YouTube double-escapes entities inside the XML.
func flattenTimedText(raw []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parsing timedtext: %w", err)
	}

	chunks := make([]string, 0, len(doc.Segments))
	for _, seg := range doc.Segments {
		cleaned := normalizeText(html.UnescapeString(seg.Text))
		if cleaned != "" {
			chunks = append(chunks, cleaned)
		}
	}
	return strings.Join(chunks, " "), nil
}
