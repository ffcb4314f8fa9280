// Package cache implements a keyed, TTL-based cache for AI coaching
// responses. Lookups are keyed by operation name plus a canonical hash of
// the request parameters; entries expire per-operation according to a TTL
// policy. The cache is best-effort and never load-bearing: a store failure
// degrades to a miss on read and a logged no-op on write, so the caller's
// primary operation cannot fail because of the cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/fieldside-ai/fieldside/pkg/models"
)

// ResponseCache orchestrates get/put/invalidate against a Store using key
// derivation and the TTL policy.
type ResponseCache struct {
	store  Store
	policy *TTLPolicy
	now    func() time.Time
}

// New creates a ResponseCache over the given store. A nil policy gets the
// built-in TTL table.
func New(store Store, policy *TTLPolicy) *ResponseCache {
	if policy == nil {
		policy = NewTTLPolicy()
	}
	return &ResponseCache{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// Get returns the cached response for (operation, params) and whether it
// was a hit. Store failures and expired entries are both reported as
// misses; the only returned error is a parameter serialization failure.
// Hits bump the entry's hit count, but a failed touch never affects the
// returned value.
func (c *ResponseCache) Get(ctx context.Context, operation string, params map[string]any) (string, bool, error) {
	key, err := DeriveKey(operation, params)
	if err != nil {
		return "", false, err
	}

	entry, err := c.store.FindLive(ctx, key, c.now())
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("cache get %s: %v", operation, err)
		}
		return "", false, nil
	}

	if err := c.store.Touch(ctx, key, c.now()); err != nil {
		log.Printf("cache touch %s: %v", operation, err)
	}
	return entry.Response, true, nil
}

// Put stores a response for (operation, params) with the operation's TTL.
// userID and contextData are kept for attribution and debugging only and
// take no part in key derivation; either may be zero. Store failures are
// logged and swallowed so a failed cache write never fails the caller.
func (c *ResponseCache) Put(ctx context.Context, operation string, params map[string]any, response, userID string, contextData map[string]any) error {
	canonical, err := CanonicalParams(params)
	if err != nil {
		return err
	}

	var contextJSON string
	if len(contextData) > 0 {
		b, err := json.Marshal(contextData)
		if err != nil {
			log.Printf("cache put %s: drop context data: %v", operation, err)
		} else {
			contextJSON = string(b)
		}
	}

	now := c.now()
	entry := models.CacheEntry{
		Key:            keyFromCanonical(operation, canonical),
		Operation:      operation,
		Params:         canonical,
		Response:       response,
		ContextData:    contextJSON,
		UserID:         userID,
		ExpiresAt:      now.Add(c.policy.TTLFor(operation)),
		HitCount:       0,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	if err := c.store.Upsert(ctx, entry); err != nil {
		log.Printf("cache put %s: %v", operation, err)
	}
	return nil
}

// Invalidate removes the entry for a single (operation, params) pair.
func (c *ResponseCache) Invalidate(ctx context.Context, operation string, params map[string]any) error {
	key, err := DeriveKey(operation, params)
	if err != nil {
		return err
	}
	return c.store.DeleteByKey(ctx, key)
}

// InvalidateCategory removes every cached result for an operation,
// regardless of parameters.
func (c *ResponseCache) InvalidateCategory(ctx context.Context, operation string) error {
	return c.store.DeleteByOperation(ctx, operation)
}

// SweepExpired removes entries past their expiry. Intended for a periodic
// schedule, independent of request traffic.
func (c *ResponseCache) SweepExpired(ctx context.Context) error {
	return c.store.DeleteExpired(ctx, c.now())
}

// Stats aggregates live entries by operation. Observability only, never on
// the hot path.
func (c *ResponseCache) Stats(ctx context.Context) (models.CacheStats, error) {
	return c.store.Stats(ctx, c.now())
}
