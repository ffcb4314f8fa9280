package models

import "time"

// CacheEntry stores one cached AI response for a distinct (operation, params) pair.
type CacheEntry struct {
	Key            string    `json:"key"`
	Operation      string    `json:"operation"`
	Params         string    `json:"params"` // canonical JSON, kept for debugging only
	Response       string    `json:"response"`
	ContextData    string    `json:"context_data,omitempty"` // supporting facts, JSON
	UserID         string    `json:"user_id,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
	HitCount       int64     `json:"hit_count"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// Live reports whether the entry is still valid at the given instant.
func (e *CacheEntry) Live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// OperationStats aggregates live entries for one operation.
type OperationStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
}

// CacheStats reports live cache contents grouped by operation.
type CacheStats struct {
	Entries     int64                     `json:"entries"`
	Hits        int64                     `json:"hits"`
	ByOperation map[string]OperationStats `json:"by_operation,omitempty"`
}
