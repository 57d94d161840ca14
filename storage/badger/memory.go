package badger

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/exocortex/core"
	"github.com/poiesic/exocortex/storage"
)

// MemoryRepository implements storage.MemoryRepository for BadgerDB.
type MemoryRepository struct {
	backend *Backend
}

var _ storage.MemoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository(backend *Backend) *MemoryRepository {
	return &MemoryRepository{backend: backend}
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *MemoryRepository) Close() error {
	return nil
}

// UpsertMemory inserts the memory or updates the existing one with the same
// fingerprint. Insert assigns a fresh UUID and creation timestamp; update
// keeps the stored identity and creation timestamp and refreshes UpdatedAt.
func (r *MemoryRepository) UpsertMemory(ctx context.Context, memory *core.Memory) (*core.Memory, error) {
	if memory == nil {
		return nil, storage.ErrInvalidQuery
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()

		existingID, err := readIndexValue(tx, makeFingerprintKey(memory.Fingerprint))
		if err != nil {
			return err
		}

		if existingID != "" {
			old, err := r.readMemory(tx, makeMemoryKey(existingID))
			if err != nil {
				return err
			}
			if old != nil {
				memory.Id = old.Id
				memory.CreatedAt = old.CreatedAt
				memory.UpdatedAt = now
			} else {
				// Dangling fingerprint entry; reclaim the ID.
				memory.Id = existingID
				memory.CreatedAt = now
				memory.UpdatedAt = time.Time{}
				createdKey := makeCreatedKey(memory.CreatedAt, memory.Id)
				if err := tx.Set(createdKey, []byte(memory.Id)); err != nil {
					return err
				}
			}
		} else {
			memory.Id = uuid.NewString()
			memory.CreatedAt = now
			memory.UpdatedAt = time.Time{}

			fpKey := makeFingerprintKey(memory.Fingerprint)
			if err := tx.Set(fpKey, []byte(memory.Id)); err != nil {
				return err
			}
			createdKey := makeCreatedKey(memory.CreatedAt, memory.Id)
			if err := tx.Set(createdKey, []byte(memory.Id)); err != nil {
				return err
			}
		}

		key := makeMemoryKey(memory.Id)
		if err := tx.Set(key, storage.MarshalMemory(memory)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return memory, nil
}

// SearchSemantic scans stored memories and returns those whose embedding has
// cosine similarity >= threshold with the query vector, highest first.
func (r *MemoryRepository) SearchSemantic(ctx context.Context, vector []float32, topK int, threshold float32, filters map[string]string) ([]*core.MemoryMatch, error) {
	if len(vector) == 0 || topK < 1 {
		return nil, storage.ErrInvalidQuery
	}

	sourceTypeFilter := filters["source_type"]

	var matches []*core.MemoryMatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(memoryRecordPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var memory *core.Memory
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				memory, unmarshalErr = storage.UnmarshalMemory(val)
				return unmarshalErr
			}); err != nil {
				return err
			}

			if len(memory.Embedding) == 0 {
				continue
			}
			if sourceTypeFilter != "" && string(memory.SourceType) != sourceTypeFilter {
				continue
			}

			similarity := dotProduct(vector, memory.Embedding)
			if similarity >= threshold {
				matches = append(matches, &core.MemoryMatch{
					Memory:     memory,
					Similarity: similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// GetMemory retrieves a single memory by ID.
func (r *MemoryRepository) GetMemory(ctx context.Context, id string) (*core.Memory, error) {
	var result *core.Memory
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readMemory(tx, makeMemoryKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetMemoryByFingerprint retrieves a memory by its content fingerprint.
func (r *MemoryRepository) GetMemoryByFingerprint(ctx context.Context, fingerprint string) (*core.Memory, error) {
	var result *core.Memory
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := readIndexValue(tx, makeFingerprintKey(fingerprint))
		if err != nil {
			return err
		}
		if id == "" {
			return storage.ErrNotFound
		}
		result, err = r.readMemory(tx, makeMemoryKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMemories retrieves up to limit memories, most recently created first.
func (r *MemoryRepository) ListMemories(ctx context.Context, limit int) ([]*core.Memory, error) {
	if limit < 1 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Memory
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the created index, then walk
		// backwards through it.
		startKey := makePartialCreatedKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(memoryCreatedPrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			memory, err := r.readMemory(tx, makeMemoryKey(id))
			if err != nil {
				return err
			}
			if memory != nil {
				results = append(results, memory)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteMemory removes a memory and its index entries.
func (r *MemoryRepository) DeleteMemory(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMemoryKey(id)

		memory, err := r.readMemory(tx, key)
		if err != nil {
			return err
		}
		if memory == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeFingerprintKey(memory.Fingerprint)); err != nil {
			return err
		}
		if err := tx.Delete(makeCreatedKey(memory.CreatedAt, memory.Id)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListCommitments collects commitment records across stored memories, newest
// memory first. An empty status returns all records.
func (r *MemoryRepository) ListCommitments(ctx context.Context, status string) ([]core.CommitmentRecord, error) {
	var results []core.CommitmentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialCreatedKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(memoryCreatedPrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			memory, err := r.readMemory(tx, makeMemoryKey(id))
			if err != nil {
				return err
			}
			if memory == nil {
				continue
			}

			for _, c := range memory.Commitments {
				if status == "" || c.Status == status {
					results = append(results, c)
				}
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// readMemory reads a memory from the transaction. Returns (nil, nil) when
// the key does not exist.
func (r *MemoryRepository) readMemory(tx *badger.Txn, key []byte) (*core.Memory, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var memory *core.Memory
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		memory, unmarshalErr = storage.UnmarshalMemory(val)
		return unmarshalErr
	})
	return memory, err
}

// readIndexValue reads a string value from an index key. Returns "" when the
// key does not exist.
func readIndexValue(tx *badger.Txn, key []byte) (string, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return "", nil
		}
		return "", err
	}

	var value string
	err = item.Value(func(val []byte) error {
		value = string(val)
		return nil
	})
	return value, err
}
