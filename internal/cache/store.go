// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps catalog responses in a SQLite database so repeated
// lookups of the same record do not hit the server again until the entry
// expires.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/tind-client/pkg/types"
)

// Store is a URL-keyed response cache backed by SQLite. It is safe for
// concurrent use.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int   `json:"entries" yaml:"entries"`
	Expired int   `json:"expired" yaml:"expired"`
	Bytes   int64 `json:"bytes" yaml:"bytes"`
}

// Open opens or creates the cache database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("cache path is empty")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if cfg.Path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = types.DefaultCacheTTL
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			url TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_expires ON responses(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached body for url. The boolean is false when there is
// no entry or it has expired.
func (s *Store) Get(ctx context.Context, url string) ([]byte, bool, error) {
	var body []byte
	var expires int64
	err := s.db.QueryRowContext(ctx,
		`SELECT body, expires_at FROM responses WHERE url = ?`, url,
	).Scan(&body, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	if s.now().Unix() >= expires {
		slog.Debug("cache entry expired", "url", url)
		return nil, false, nil
	}
	slog.Debug("cache hit", "url", url)
	return body, true, nil
}

// Put stores body for url, replacing any previous entry.
func (s *Store) Put(ctx context.Context, url string, body []byte) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (url, body, fetched_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body,
			fetched_at = excluded.fetched_at, expires_at = excluded.expires_at`,
		url, body, now.Unix(), now.Add(s.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}

// Prune deletes expired entries and returns how many were removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats counts live and expired entries.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*),
			coalesce(sum(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0),
			coalesce(sum(length(body)), 0)
		 FROM responses`, s.now().Unix(),
	).Scan(&st.Entries, &st.Expired, &st.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return st, nil
}
