package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey builds a cache key from a namespace and its components. The
// namespace stays in clear text so backends can group entries by kind
// (bank entries under bank/); the components are hashed, NUL-separated
// so ("serde", "1.0") and ("serde-1", ".0") can never collide.
func hashKey(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash computes the SHA-256 hex digest of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
