package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// CanonicalParams serializes params as a JSON object with top-level keys in
// lexicographic order, so that two logically-equal parameter maps always
// produce the same byte sequence. Nested values are serialized by
// encoding/json as given. Returns an error if any value cannot be
// serialized; that is a programming error at the call site, not a runtime
// condition to mask.
func CanonicalParams(params map[string]any) (string, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return "", fmt.Errorf("serialize param key %q: %w", k, err)
		}
		vb, err := json.Marshal(params[k])
		if err != nil {
			return "", fmt.Errorf("serialize param %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// DeriveKey computes the cache key for an operation and its parameters:
// the operation name, a colon, and the SHA-256 hex digest of the canonical
// parameter serialization. Namespacing by operation means identical
// parameter shapes under different operations never collide.
func DeriveKey(operation string, params map[string]any) (string, error) {
	canonical, err := CanonicalParams(params)
	if err != nil {
		return "", err
	}
	return keyFromCanonical(operation, canonical), nil
}

func keyFromCanonical(operation, canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return operation + ":" + hex.EncodeToString(sum[:])
}
