package testutil

import (
	"context"
	"sync"

	"github.com/notestream/notestream/internal/video"
)

// StubFetcher serves canned video metadata and transcripts without
// touching the network, recording every lookup.
//
// Thread-safe for concurrent use.
type StubFetcher struct {
	mu          sync.Mutex
	metadata    map[string]video.Metadata
	transcripts map[string]string
	metaErr     error
	transErr    error
	lookups     []string
}

// NewStubFetcher creates an empty stub. Unknown video IDs return
// video.ErrUnavailable for metadata and video.ErrNoCaptions for
// transcripts.
func NewStubFetcher() *StubFetcher {
	return &StubFetcher{
		metadata:    make(map[string]video.Metadata),
		transcripts: make(map[string]string),
	}
}

// AddVideo registers metadata and a transcript for a video ID.
func (f *StubFetcher) AddVideo(meta video.Metadata, transcript string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata[meta.ID] = meta
	f.transcripts[meta.ID] = transcript
}

// FailMetadataWith makes Metadata return err for every video.
func (f *StubFetcher) FailMetadataWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaErr = err
}

// FailTranscriptWith makes Transcript return err for every video.
func (f *StubFetcher) FailTranscriptWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transErr = err
}

// Lookups returns the video IDs requested so far, in order.
func (f *StubFetcher) Lookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]string, len(f.lookups))
	copy(cp, f.lookups)
	return cp
}

// Metadata implements video.Fetcher.
func (f *StubFetcher) Metadata(_ context.Context, videoID string) (video.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, videoID)

	if f.metaErr != nil {
		return video.Metadata{}, f.metaErr
	}
	meta, ok := f.metadata[videoID]
	if !ok {
		return video.Metadata{}, video.ErrUnavailable
	}
	return meta, nil
}

// Transcript implements video.Fetcher.
func (f *StubFetcher) Transcript(_ context.Context, videoID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transErr != nil {
		return "", f.transErr
	}
	transcript, ok := f.transcripts[videoID]
	if !ok {
		return "", video.ErrNoCaptions
	}
	return transcript, nil
}
