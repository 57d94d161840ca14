package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	memoryRecordPrefix      = "memrec"
	memoryFingerprintPrefix = "memfp"
	memoryCreatedPrefix     = "memcr"
)

// makeMemoryKey generates the primary key for a memory by ID.
func makeMemoryKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", memoryRecordPrefix, id))
}

// makeFingerprintKey generates the key for the fingerprint index.
// The value is the ID of the memory that owns the fingerprint.
func makeFingerprintKey(fingerprint string) []byte {
	return []byte(fmt.Sprintf("%s:%s", memoryFingerprintPrefix, fingerprint))
}

// makeCreatedKey generates a composite key for the creation time index.
// Format: prefix:timestamp:id
func makeCreatedKey(createdAt time.Time, id string) []byte {
	prefix := memoryCreatedPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8 + len(id)
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], []byte(id))
	return buf
}

// makePartialCreatedKey generates a partial key for creation time seeks.
// Format: prefix:timestamp
func makePartialCreatedKey(createdAt time.Time) []byte {
	prefix := memoryCreatedPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	return buf
}
