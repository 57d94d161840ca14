package storage

import (
	"context"

	"github.com/poiesic/exocortex/core"
)

// MemoryRepository provides persistence and semantic retrieval for memories.
// Implementations must be thread-safe and support concurrent access.
type MemoryRepository interface {
	// UpsertMemory inserts the memory or, when a memory with the same
	// fingerprint already exists, updates it in place. On insert the memory
	// receives a storage-assigned ID and creation timestamp; on conflict it
	// keeps the existing ID and creation timestamp and gets an update
	// timestamp. Returns the memory with identity fields populated.
	UpsertMemory(ctx context.Context, memory *core.Memory) (*core.Memory, error)

	// SearchSemantic finds memories whose embedding has cosine similarity
	// >= threshold with the given vector, up to topK results, ordered by
	// similarity (highest first). A "source_type" entry in filters restricts
	// results to that source type.
	SearchSemantic(ctx context.Context, vector []float32, topK int, threshold float32, filters map[string]string) ([]*core.MemoryMatch, error)

	// GetMemory retrieves a memory by ID.
	// Returns ErrNotFound if the memory doesn't exist.
	GetMemory(ctx context.Context, id string) (*core.Memory, error)

	// GetMemoryByFingerprint retrieves a memory by its content fingerprint.
	// Returns ErrNotFound if no memory with that fingerprint exists.
	GetMemoryByFingerprint(ctx context.Context, fingerprint string) (*core.Memory, error)

	// ListMemories retrieves up to limit memories ordered by creation time,
	// most recent first.
	ListMemories(ctx context.Context, limit int) ([]*core.Memory, error)

	// DeleteMemory removes a memory and its indices.
	// Returns ErrNotFound if the memory doesn't exist.
	DeleteMemory(ctx context.Context, id string) error

	// ListCommitments returns the commitment records attached to stored
	// memories, newest memory first. An empty status returns all of them;
	// otherwise only records with that status.
	ListCommitments(ctx context.Context, status string) ([]core.CommitmentRecord, error)

	// Close closes the repository and releases resources.
	Close() error
}
