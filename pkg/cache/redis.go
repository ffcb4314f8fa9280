package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// RedisStore implements Store backed by Redis. Each entry is a hash under
// a prefixed key with a native EXPIREAT, and a per-operation set of keys
// serves as the secondary index for category-wide invalidation.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisStoreConfig holds configuration for the Redis store.
type RedisStoreConfig struct {
	Addr      string // Redis address (e.g. "localhost:6379")
	Password  string // Redis password
	DB        int    // Redis database number
	KeyPrefix string // Key prefix for namespacing (default: "fieldside:cache:")
}

const defaultRedisPrefix = "fieldside:cache:"

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(cfg RedisStoreConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisStoreFromClient creates a Redis store using an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) entryKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) opIndexKey(operation string) string {
	return s.prefix + "op:" + operation
}

func (s *RedisStore) opsKey() string {
	return s.prefix + "ops"
}

// FindLive returns the entry for key if it expires after now. Redis also
// expires the hash natively; the explicit check keeps semantics identical
// to the SQLite store under an injected clock.
func (s *RedisStore) FindLive(ctx context.Context, key string, now time.Time) (*models.CacheEntry, error) {
	fields, err := s.client.HGetAll(ctx, s.entryKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("find cache entry: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	entry, err := entryFromFields(key, fields)
	if err != nil {
		return nil, err
	}
	if !entry.Live(now) {
		return nil, ErrNotFound
	}
	return entry, nil
}

// Upsert replaces any existing hash for the key and refreshes the
// per-operation index. The delete before HSET resets hit_count to zero.
func (s *RedisStore) Upsert(ctx context.Context, entry models.CacheEntry) error {
	pipe := s.client.TxPipeline()
	ek := s.entryKey(entry.Key)
	pipe.Del(ctx, ek)
	pipe.HSet(ctx, ek, map[string]any{
		"operation":        entry.Operation,
		"params":           entry.Params,
		"response":         entry.Response,
		"context_data":     entry.ContextData,
		"user_id":          entry.UserID,
		"expires_at":       entry.ExpiresAt.UTC().Format(time.RFC3339Nano),
		"hit_count":        0,
		"created_at":       entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		"last_accessed_at": entry.LastAccessedAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.ExpireAt(ctx, ek, entry.ExpiresAt)
	pipe.SAdd(ctx, s.opIndexKey(entry.Operation), entry.Key)
	pipe.SAdd(ctx, s.opsKey(), entry.Operation)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// Touch bumps the hit count with HINCRBY, which is atomic in Redis, and
// sets the last access time. Touching a missing key is a no-op.
func (s *RedisStore) Touch(ctx context.Context, key string, now time.Time) error {
	ek := s.entryKey(key)
	n, err := s.client.Exists(ctx, ek).Result()
	if err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}
	if n == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, ek, "hit_count", 1)
	pipe.HSet(ctx, ek, "last_accessed_at", now.UTC().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}
	return nil
}

// DeleteByKey removes a single entry and its index membership.
func (s *RedisStore) DeleteByKey(ctx context.Context, key string) error {
	ek := s.entryKey(key)
	operation, err := s.client.HGet(ctx, ek, "operation").Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, ek)
	pipe.SRem(ctx, s.opIndexKey(operation), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// DeleteByOperation removes every entry for an operation via its index set.
func (s *RedisStore) DeleteByOperation(ctx context.Context, operation string) error {
	keys, err := s.client.SMembers(ctx, s.opIndexKey(operation)).Result()
	if err != nil {
		return fmt.Errorf("delete cache entries for %s: %w", operation, err)
	}
	pipe := s.client.TxPipeline()
	for _, k := range keys {
		pipe.Del(ctx, s.entryKey(k))
	}
	pipe.Del(ctx, s.opIndexKey(operation))
	pipe.SRem(ctx, s.opsKey(), operation)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete cache entries for %s: %w", operation, err)
	}
	return nil
}

// DeleteExpired prunes index members whose entry hash is gone or past
// expiry. Redis removes the value keys natively, so the sweep exists to
// keep the per-operation indexes and Stats honest.
func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) error {
	ops, err := s.client.SMembers(ctx, s.opsKey()).Result()
	if err != nil {
		return fmt.Errorf("sweep expired entries: %w", err)
	}
	for _, op := range ops {
		keys, err := s.client.SMembers(ctx, s.opIndexKey(op)).Result()
		if err != nil {
			return fmt.Errorf("sweep expired entries for %s: %w", op, err)
		}
		remaining := len(keys)
		for _, k := range keys {
			live, err := s.isLive(ctx, k, now)
			if err != nil {
				return err
			}
			if live {
				continue
			}
			pipe := s.client.TxPipeline()
			pipe.Del(ctx, s.entryKey(k))
			pipe.SRem(ctx, s.opIndexKey(op), k)
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("sweep expired entry: %w", err)
			}
			remaining--
		}
		if remaining == 0 {
			if err := s.client.SRem(ctx, s.opsKey(), op).Err(); err != nil {
				return fmt.Errorf("sweep operation index %s: %w", op, err)
			}
		}
	}
	return nil
}

func (s *RedisStore) isLive(ctx context.Context, key string, now time.Time) (bool, error) {
	raw, err := s.client.HGet(ctx, s.entryKey(key), "expires_at").Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check cache entry expiry: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return false, fmt.Errorf("parse cache entry expiry: %w", err)
	}
	return now.Before(expiresAt), nil
}

// Stats aggregates live entries grouped by operation. Observability only;
// it walks the per-operation indexes rather than scanning the keyspace.
func (s *RedisStore) Stats(ctx context.Context, now time.Time) (models.CacheStats, error) {
	ops, err := s.client.SMembers(ctx, s.opsKey()).Result()
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}

	stats := models.CacheStats{ByOperation: make(map[string]models.OperationStats)}
	for _, op := range ops {
		keys, err := s.client.SMembers(ctx, s.opIndexKey(op)).Result()
		if err != nil {
			return models.CacheStats{}, fmt.Errorf("cache stats for %s: %w", op, err)
		}
		var opStats models.OperationStats
		for _, k := range keys {
			live, err := s.isLive(ctx, k, now)
			if err != nil {
				return models.CacheStats{}, err
			}
			if !live {
				continue
			}
			raw, err := s.client.HGet(ctx, s.entryKey(k), "hit_count").Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return models.CacheStats{}, fmt.Errorf("cache stats for %s: %w", op, err)
			}
			hits, _ := strconv.ParseInt(raw, 10, 64)
			opStats.Entries++
			opStats.Hits += hits
		}
		if opStats.Entries > 0 {
			stats.ByOperation[op] = opStats
			stats.Entries += opStats.Entries
			stats.Hits += opStats.Hits
		}
	}
	return stats, nil
}

// Ping verifies connectivity to the Redis backend.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func entryFromFields(key string, fields map[string]string) (*models.CacheEntry, error) {
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("parse cache entry expiry: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parse cache entry created_at: %w", err)
	}
	lastAccessed, err := time.Parse(time.RFC3339Nano, fields["last_accessed_at"])
	if err != nil {
		return nil, fmt.Errorf("parse cache entry last_accessed_at: %w", err)
	}
	hitCount, _ := strconv.ParseInt(fields["hit_count"], 10, 64)

	return &models.CacheEntry{
		Key:            key,
		Operation:      fields["operation"],
		Params:         fields["params"],
		Response:       fields["response"],
		ContextData:    fields["context_data"],
		UserID:         fields["user_id"],
		ExpiresAt:      expiresAt,
		HitCount:       hitCount,
		CreatedAt:      createdAt,
		LastAccessedAt: lastAccessed,
	}, nil
}
