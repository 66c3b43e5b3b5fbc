// Package cache persists immutable generation artifacts and fetched
// video context in SQLite, keyed by a content-derived hash, so a
// distinct generation request costs at most one LLM call.
//
// Entries are logically permanent: there is no TTL or eviction in this
// version. Regeneration with force-refresh overwrites the entry for
// its key; nothing is ever mutated in place.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind identifies what an artifact is.
type Kind string

const (
	KindSummary Kind = "summary"
	KindNotes   Kind = "notes"
	KindQuiz    Kind = "quiz"
)

// Artifact is one generated, immutable piece of content.
type Artifact struct {
	Kind       Kind
	Style      string
	Difficulty string
	Content    string // Markdown
	CreatedAt  time.Time
}

// KeyParams is the semantic content of a generation request that
// determines cache identity. The caller's credential is deliberately
// absent: identical requests share a key regardless of who pays for
// the generation.
type KeyParams struct {
	VideoID               string
	Kind                  Kind
	Style                 string
	Difficulty            string
	Model                 string
	ExamName              string
	CustomDescription     string
	TranscriptFingerprint string
}

// Hash derives the stable cache key: a hex SHA-256 over the sorted
// key=value rendering of all parameters. Identical params always yield
// identical keys.
func (p KeyParams) Hash() string {
	fields := map[string]string{
		"video_id":    p.VideoID,
		"kind":        string(p.Kind),
		"style":       p.Style,
		"difficulty":  p.Difficulty,
		"model":       p.Model,
		"exam_name":   p.ExamName,
		"custom":      p.CustomDescription,
		"fingerprint": p.TranscriptFingerprint,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, fields[k]))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Fingerprint hashes a normalized transcript for inclusion in cache
// keys, so a changed transcript produces a new key.
func Fingerprint(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return hex.EncodeToString(sum[:])
}
