package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// ErrNotFound is returned when no live entry exists for a key.
var ErrNotFound = errors.New("cache: entry not found")

// Store is the persistence contract for cached responses. Implementations
// must be safe for concurrent use without external locking; in particular
// Touch must increment the hit count atomically in the backend, not via
// caller-side read-modify-write.
type Store interface {
	// FindLive returns the entry for key if it has not expired at now.
	// Expired or missing entries yield ErrNotFound.
	FindLive(ctx context.Context, key string, now time.Time) (*models.CacheEntry, error)

	// Upsert deletes any existing row with the same key, then inserts the
	// new entry with a zero hit count. Old hit history never leaks into a
	// refreshed entry.
	Upsert(ctx context.Context, entry models.CacheEntry) error

	// Touch increments the hit count by one and sets the last access time.
	Touch(ctx context.Context, key string, now time.Time) error

	// DeleteByKey removes a single entry. Deleting a missing key is not an error.
	DeleteByKey(ctx context.Context, key string) error

	// DeleteByOperation removes every entry whose operation matches.
	DeleteByOperation(ctx context.Context, operation string) error

	// DeleteExpired removes entries whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) error

	// Stats aggregates live entries grouped by operation.
	Stats(ctx context.Context, now time.Time) (models.CacheStats, error)

	// Close releases resources held by the store.
	Close() error
}
