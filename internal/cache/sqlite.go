package cache

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Store is a SQLite-backed Cache. It follows the advisory contract: any
// database error is logged at debug level and surfaced as a miss.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a SQLite-backed cache on an already-migrated database.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "cache")),
		now:    time.Now,
	}
}

// Get returns the cached value when present and unexpired.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	var value string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key).
		Scan(&value, &expiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Debug("cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return "", false
	}
	if s.now().Unix() >= expiresAt {
		// Expired entries are deleted opportunistically; a failure here
		// just leaves garbage for the next sweep.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return "", false
	}
	return value, true
}

// Set stores a value with the given TTL. Non-positive TTLs are ignored.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, s.now().Add(ttl).Unix())
	if err != nil {
		s.logger.Debug("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Sweep removes all expired entries. Intended to run periodically from a
// background goroutine.
func (s *Store) Sweep(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at <= ?`, s.now().Unix())
	return err
}
