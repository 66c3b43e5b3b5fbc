package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/notestream/notestream/db"
	"github.com/notestream/notestream/internal/log"
	"github.com/notestream/notestream/internal/video"
)

// Store is the SQLite-backed cache. Safe for concurrent use from
// independent requests: artifact writes are single-row upserts and the
// value for a given key is deterministic, so races write the same
// content.
type Store struct {
	db     *sql.DB
	logger log.Logger
}

// Open opens (creating if needed) the cache database at path and runs
// pending migrations.
func Open(path string, logger log.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	if err := db.Migrate(path); err != nil {
		return nil, fmt.Errorf("migrating cache schema: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Store{db: conn, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetVideo returns the cached metadata and transcript for a video id,
// or ok=false when the video has not been fetched before.
func (s *Store) GetVideo(ctx context.Context, videoID string) (video.Metadata, string, bool, error) {
	var meta video.Metadata
	var transcript string
	err := s.db.QueryRowContext(ctx, `
		SELECT video_id, url, title, channel, duration_seconds,
		       publish_date, thumbnail, description, transcript
		FROM videos WHERE video_id = ?`, videoID,
	).Scan(&meta.ID, &meta.URL, &meta.Title, &meta.Channel, &meta.DurationSeconds,
		&meta.PublishDate, &meta.Thumbnail, &meta.Description, &transcript)
	if errors.Is(err, sql.ErrNoRows) {
		return video.Metadata{}, "", false, nil
	}
	if err != nil {
		return video.Metadata{}, "", false, fmt.Errorf("reading cached video: %w", err)
	}
	return meta, transcript, true, nil
}

// PutVideo upserts metadata and transcript for a video.
func (s *Store) PutVideo(ctx context.Context, meta video.Metadata, transcript string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (video_id, url, title, channel, duration_seconds,
		                    publish_date, thumbnail, description, transcript, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			channel = excluded.channel,
			duration_seconds = excluded.duration_seconds,
			publish_date = excluded.publish_date,
			thumbnail = excluded.thumbnail,
			description = excluded.description,
			transcript = excluded.transcript,
			updated_at = excluded.updated_at`,
		meta.ID, meta.URL, meta.Title, meta.Channel, meta.DurationSeconds,
		meta.PublishDate, meta.Thumbnail, meta.Description, transcript, now)
	if err != nil {
		return fmt.Errorf("caching video: %w", err)
	}
	return nil
}

// GetArtifact returns the artifact stored under key, or nil when the
// key is absent.
func (s *Store) GetArtifact(ctx context.Context, key string) (*Artifact, error) {
	var art Artifact
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT kind, style, difficulty, content, created_at
		FROM artifacts WHERE key_hash = ?`, key,
	).Scan(&art.Kind, &art.Style, &art.Difficulty, &art.Content, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached artifact: %w", err)
	}
	if ts, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		art.CreatedAt = ts
	}
	return &art, nil
}

// PutArtifact stores art under key. With overwrite false a concurrent
// identical write is ignored (first writer wins, content is identical
// per key); with overwrite true the prior entry is superseded, which
// is the force-refresh path.
func (s *Store) PutArtifact(ctx context.Context, key, videoID string, art Artifact, overwrite bool) error {
	conflict := "DO NOTHING"
	if overwrite {
		conflict = `DO UPDATE SET
			kind = excluded.kind,
			style = excluded.style,
			difficulty = excluded.difficulty,
			content = excluded.content,
			created_at = excluded.created_at`
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (key_hash, video_id, kind, style, difficulty, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key_hash) `+conflict,
		key, videoID, art.Kind, art.Style, art.Difficulty, art.Content, now)
	if err != nil {
		return fmt.Errorf("caching artifact: %w", err)
	}
	return nil
}

// Invalidate removes the artifact stored under key, if any. Used only
// on explicit force-refresh paths.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE key_hash = ?`, key); err != nil {
		return fmt.Errorf("invalidating artifact: %w", err)
	}
	return nil
}
