package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the 64-character hex SHA-256 digest of text. It is the
// content identity used for idempotent ingestion: the same text always maps
// to the same fingerprint, and the storage layer upserts on it.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
