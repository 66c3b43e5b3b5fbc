package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/notestream/notestream/internal/log"
)

// Fetcher retrieves video metadata and caption transcripts. The
// orchestrator depends on this interface; tests substitute a
// deterministic stub.
type Fetcher interface {
	Metadata(ctx context.Context, videoID string) (Metadata, error)
	Transcript(ctx context.Context, videoID string) (string, error)
}

// outboundRate limits requests against YouTube. Burst covers the
// watch-page + caption-track pair a single generation needs.
const (
	outboundRate  = 2.0
	outboundBurst = 4
)

// HTTPFetcher fetches metadata from the public watch page (with the
// oEmbed endpoint as fallback) and transcripts from the caption tracks
// the watch page advertises.
type HTTPFetcher struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  log.Logger
}

// NewHTTPFetcher creates a fetcher with a shared outbound rate limit.
func NewHTTPFetcher(logger log.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(outboundRate), outboundBurst),
		logger:  logger,
	}
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	// A desktop user agent keeps YouTube serving the full watch page.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return f.http.Do(req)
}

// Metadata resolves title, channel, duration, publish date, thumbnail
// and description. The watch page carries all of them in meta tags;
// when that fails the oEmbed endpoint still yields title, channel and
// thumbnail.
func (f *HTTPFetcher) Metadata(ctx context.Context, videoID string) (Metadata, error) {
	meta, err := f.metadataFromWatchPage(ctx, videoID)
	if err == nil {
		return meta, nil
	}
	f.logger.Warn("watch page metadata fetch failed, falling back to oEmbed",
		"video_id", videoID, "error", err)

	return f.metadataFromOEmbed(ctx, videoID)
}

func (f *HTTPFetcher) metadataFromWatchPage(ctx context.Context, videoID string) (Metadata, error) {
	resp, err := f.get(ctx, WatchURL(videoID))
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Metadata{}, fmt.Errorf("%w: watch page status %d", ErrUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Metadata{}, fmt.Errorf("parsing watch page: %w", err)
	}

	metaContent := func(selector string) string {
		value, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(value)
	}

	title := metaContent(`meta[property="og:title"]`)
	if title == "" {
		title = "Untitled Video"
	}
	channel := metaContent(`span[itemprop="author"] link[itemprop="name"]`)
	if channel == "" {
		channel = "Unknown Channel"
	}

	return Metadata{
		ID:              videoID,
		URL:             WatchURL(videoID),
		Title:           title,
		Channel:         channel,
		DurationSeconds: parseISODuration(metaContent(`meta[itemprop="duration"]`)),
		PublishDate:     truncateDate(metaContent(`meta[itemprop="datePublished"]`)),
		Thumbnail:       metaContent(`meta[property="og:image"]`),
		Description:     metaContent(`meta[property="og:description"]`),
	}, nil
}

func (f *HTTPFetcher) metadataFromOEmbed(ctx context.Context, videoID string) (Metadata, error) {
	oembedURL := "https://www.youtube.com/oembed?format=json&url=" + WatchURL(videoID)
	resp, err := f.get(ctx, oembedURL)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Metadata{}, fmt.Errorf("%w: oEmbed status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return Metadata{}, fmt.Errorf("%w: decoding oEmbed response: %v", ErrUnavailable, err)
	}

	title := payload.Title
	if title == "" {
		title = "Untitled Video"
	}
	channel := payload.AuthorName
	if channel == "" {
		channel = "Unknown Channel"
	}

	return Metadata{
		ID:        videoID,
		URL:       WatchURL(videoID),
		Title:     title,
		Channel:   channel,
		Thumbnail: payload.ThumbnailURL,
	}, nil
}

// parseISODuration converts the watch page's ISO-8601 duration
// (e.g. "PT4M13S") to whole seconds. Unparseable input yields 0.
func parseISODuration(iso string) int {
	if !strings.HasPrefix(iso, "PT") {
		return 0
	}
	normalized := strings.ToLower(strings.TrimPrefix(iso, "PT"))
	d, err := time.ParseDuration(normalized)
	if err != nil {
		return 0
	}
	return int(d.Seconds())
}

// truncateDate keeps the date part of an ISO timestamp.
func truncateDate(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}
