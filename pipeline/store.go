package pipeline

import (
	"context"

	"github.com/poiesic/exocortex/core"
)

// Store persists the memory with an upsert keyed on its fingerprint and
// returns it with the storage-assigned identity populated.
func (o *Orchestrator) Store(ctx context.Context, memory *core.Memory) (*core.Memory, *core.Error) {
	if memory == nil {
		return nil, core.NewError(core.ErrCodeStore, "memory is nil")
	}

	stored, err := o.repository.UpsertMemory(ctx, memory)
	if err != nil {
		return nil, toExoError(core.ErrCodeStore, "storing memory failed", err)
	}

	o.logger.Debug("memory stored",
		"id", stored.Id,
		"source_type", string(stored.SourceType),
		"updated", !stored.UpdatedAt.IsZero())
	return stored, nil
}
