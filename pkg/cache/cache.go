// Package cache provides a file-based cache for generated code banks.
//
// Code bank generation walks a dependency's whole source tree, which is
// slow for large crates. Since a registry snapshot directory for a given
// {name}-{version} never changes once fetched, generated banks can be
// reused across runs. Entries are stored as JSON files with optional
// expiration under a cache directory.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// BankKey generates the cache key for a dependency's generated code bank.
// The key covers name and exact version, so a version bump invalidates
// the entry naturally.
func BankKey(name, version string) string {
	return hashKey("bank", name, version)
}
