// Package cache provides a byte-oriented cache abstraction with file,
// Redis, and null backends. It is used by the HTTP API to cache walk
// reports; per-run walker state is never cached.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TTLReport is the default time-to-live for cached walk reports.
const TTLReport = 24 * time.Hour

// Cache is the interface all backends implement.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Hash computes a SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReportKey builds the cache key for a walk report. All parameters that
// change the result participate in the key, including the default version
// substituted for versionless POM dependencies.
func ReportKey(pkg, filter, mode, version string) string {
	return hashKey("report", pkg, filter, mode, version)
}

// hashKey generates a cache key "prefix:hash(parts...)".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}
