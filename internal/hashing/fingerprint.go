// Package hashing computes content fingerprints for uploaded documents.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the lowercase hex SHA-256 digest of content.
// Identical byte sequences always produce identical fingerprints, so the
// result is usable as a cache key regardless of file name or upload time.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// FingerprintString returns the fingerprint of a string's UTF-8 bytes.
func FingerprintString(s string) string {
	return Fingerprint([]byte(s))
}
