package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// SQLiteStore implements Store with a single SQLite table. The key column
// is the primary key; operation and expiry indexes back category-wide
// invalidation and the expiry sweep.
type SQLiteStore struct {
	db *sql.DB
}

const createResponsesTable = `
CREATE TABLE IF NOT EXISTS ai_responses (
	key              TEXT PRIMARY KEY,
	operation        TEXT NOT NULL,
	params           TEXT NOT NULL,
	response         TEXT NOT NULL,
	context_data     TEXT NOT NULL DEFAULT '',
	user_id          TEXT NOT NULL DEFAULT '',
	expires_at       DATETIME NOT NULL,
	hit_count        INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL,
	last_accessed_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ai_responses_operation ON ai_responses(operation);
CREATE INDEX IF NOT EXISTS idx_ai_responses_expires ON ai_responses(expires_at);
`

// NewSQLiteStore opens (or creates) the cache database at dbPath and runs
// auto-migration.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createResponsesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// FindLive returns the entry for key if it expires after now.
func (s *SQLiteStore) FindLive(ctx context.Context, key string, now time.Time) (*models.CacheEntry, error) {
	var e models.CacheEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT key, operation, params, response, context_data, user_id,
		        expires_at, hit_count, created_at, last_accessed_at
		 FROM ai_responses WHERE key = ? AND expires_at > ?`,
		key, now.UTC(),
	).Scan(&e.Key, &e.Operation, &e.Params, &e.Response, &e.ContextData, &e.UserID,
		&e.ExpiresAt, &e.HitCount, &e.CreatedAt, &e.LastAccessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cache entry: %w", err)
	}
	return &e, nil
}

// Upsert replaces any existing row for the key. Delete-then-insert is
// intentional: the refreshed entry starts with hit_count zero.
func (s *SQLiteStore) Upsert(ctx context.Context, entry models.CacheEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ai_responses WHERE key = ?`, entry.Key); err != nil {
		return fmt.Errorf("delete stale entry: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ai_responses
		 (key, operation, params, response, context_data, user_id,
		  expires_at, hit_count, created_at, last_accessed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		entry.Key, entry.Operation, entry.Params, entry.Response, entry.ContextData, entry.UserID,
		entry.ExpiresAt.UTC(), entry.CreatedAt.UTC(), entry.LastAccessedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}
	return tx.Commit()
}

// Touch bumps the hit count and last access time. The increment happens in
// SQL so concurrent touches on the same key are never lost.
func (s *SQLiteStore) Touch(ctx context.Context, key string, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE ai_responses SET hit_count = hit_count + 1, last_accessed_at = ? WHERE key = ?`,
		now.UTC(), key,
	)
	if err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}
	return nil
}

// DeleteByKey removes a single entry.
func (s *SQLiteStore) DeleteByKey(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ai_responses WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// DeleteByOperation removes every entry for an operation.
func (s *SQLiteStore) DeleteByOperation(ctx context.Context, operation string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ai_responses WHERE operation = ?`, operation); err != nil {
		return fmt.Errorf("delete cache entries for %s: %w", operation, err)
	}
	return nil
}

// DeleteExpired removes entries whose expiry is at or before now.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ai_responses WHERE expires_at <= ?`, now.UTC()); err != nil {
		return fmt.Errorf("delete expired cache entries: %w", err)
	}
	return nil
}

// Stats aggregates live entries grouped by operation.
func (s *SQLiteStore) Stats(ctx context.Context, now time.Time) (models.CacheStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT operation, COUNT(*), COALESCE(SUM(hit_count), 0)
		 FROM ai_responses WHERE expires_at > ? GROUP BY operation`,
		now.UTC(),
	)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	defer rows.Close()

	stats := models.CacheStats{ByOperation: make(map[string]models.OperationStats)}
	for rows.Next() {
		var op string
		var s models.OperationStats
		if err := rows.Scan(&op, &s.Entries, &s.Hits); err != nil {
			return models.CacheStats{}, fmt.Errorf("scan cache stats: %w", err)
		}
		stats.ByOperation[op] = s
		stats.Entries += s.Entries
		stats.Hits += s.Hits
	}
	return stats, rows.Err()
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// entryByKey returns the raw row for a key regardless of expiry, for
// inspecting bookkeeping fields.
func (s *SQLiteStore) entryByKey(ctx context.Context, key string) (*models.CacheEntry, error) {
	var e models.CacheEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT key, operation, params, response, context_data, user_id,
		        expires_at, hit_count, created_at, last_accessed_at
		 FROM ai_responses WHERE key = ?`,
		key,
	).Scan(&e.Key, &e.Operation, &e.Params, &e.Response, &e.ContextData, &e.UserID,
		&e.ExpiresAt, &e.HitCount, &e.CreatedAt, &e.LastAccessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cache entry: %w", err)
	}
	return &e, nil
}
