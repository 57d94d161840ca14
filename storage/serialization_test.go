package storage

import (
	"testing"
	"time"

	"github.com/poiesic/exocortex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalMemory(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		memory *core.Memory
	}{
		{
			name: "minimal memory",
			memory: &core.Memory{
				Id:          "mem-1",
				Content:     "A quick note.",
				Summary:     "Quick note.",
				SourceType:  core.SourceTypeMarkdown,
				Fingerprint: core.Fingerprint("A quick note."),
				CreatedAt:   now,
			},
		},
		{
			name: "memory with everything",
			memory: &core.Memory{
				Id:      "mem-2",
				Content: "Alice agreed to send Bob the report by Friday.",
				Summary: "Alice will send Bob the report by Friday.",
				Intents: []string{string(core.IntentCommitment), string(core.IntentDecision)},
				Entities: map[string][]core.EntityRecord{
					"person": {
						{Name: "Alice", Confidence: 0.95, Normalized: "alice"},
						{Name: "Bob", Confidence: 0.9, Normalized: "bob"},
					},
					"date": {
						{Name: "Friday", Confidence: 0.8, Normalized: "friday"},
					},
				},
				Commitments: []core.CommitmentRecord{
					{FromParty: "Alice", ToParty: "Bob", Description: "Send the report", DueDate: "2026-08-28", Status: "open"},
				},
				Embedding:   []float32{0.1, 0.2, 0.3, 0.4, 0.5},
				SourceType:  core.SourceTypeSlack,
				SourceFile:  "standup.json",
				Fingerprint: core.Fingerprint("Alice agreed to send Bob the report by Friday."),
				CreatedAt:   now,
				UpdatedAt:   now.Add(time.Hour),
			},
		},
		{
			name: "unicode content",
			memory: &core.Memory{
				Id:          "mem-3",
				Content:     "Notes from 東京 meeting 🗼",
				Summary:     "Tokyo meeting notes.",
				SourceType:  core.SourceTypeAudio,
				Fingerprint: core.Fingerprint("Notes from 東京 meeting 🗼"),
				CreatedAt:   now,
			},
		},
		{
			name: "large embedding",
			memory: &core.Memory{
				Id:          "mem-4",
				Content:     "Embedded.",
				Summary:     "Embedded.",
				Embedding:   make([]float32, 768),
				SourceType:  core.SourceTypeMarkdown,
				Fingerprint: core.Fingerprint("Embedded."),
				CreatedAt:   now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalMemory(tt.memory)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalMemory(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.memory.Id, decoded.Id)
			assert.Equal(t, tt.memory.Content, decoded.Content)
			assert.Equal(t, tt.memory.Summary, decoded.Summary)
			assert.Equal(t, tt.memory.SourceType, decoded.SourceType)
			assert.Equal(t, tt.memory.SourceFile, decoded.SourceFile)
			assert.Equal(t, tt.memory.Fingerprint, decoded.Fingerprint)
			assert.True(t, tt.memory.CreatedAt.Equal(decoded.CreatedAt))
			assert.True(t, tt.memory.UpdatedAt.Equal(decoded.UpdatedAt))
			if len(tt.memory.Intents) == 0 {
				assert.Empty(t, decoded.Intents)
			} else {
				assert.Equal(t, tt.memory.Intents, decoded.Intents)
			}
			if len(tt.memory.Entities) == 0 {
				assert.Empty(t, decoded.Entities)
			} else {
				assert.Equal(t, tt.memory.Entities, decoded.Entities)
			}
			if len(tt.memory.Commitments) == 0 {
				assert.Empty(t, decoded.Commitments)
			} else {
				assert.Equal(t, tt.memory.Commitments, decoded.Commitments)
			}
			if len(tt.memory.Embedding) == 0 {
				assert.Empty(t, decoded.Embedding)
			} else {
				assert.Equal(t, tt.memory.Embedding, decoded.Embedding)
			}
		})
	}
}

func TestMarshalMemoryDeterministic(t *testing.T) {
	memory := &core.Memory{
		Id:      "mem-det",
		Content: "Deterministic.",
		Summary: "Deterministic.",
		Entities: map[string][]core.EntityRecord{
			"person":  {{Name: "Alice", Confidence: 1, Normalized: "alice"}},
			"project": {{Name: "Atlas", Confidence: 1, Normalized: "atlas"}},
			"date":    {{Name: "Monday", Confidence: 1, Normalized: "monday"}},
		},
		SourceType:  core.SourceTypeMarkdown,
		Fingerprint: core.Fingerprint("Deterministic."),
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	first := MarshalMemory(memory)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MarshalMemory(memory))
	}
}

func TestMarshalMemoryZeroUpdatedAt(t *testing.T) {
	memory := &core.Memory{
		Id:          "mem-zero",
		Content:     "Never updated.",
		Summary:     "Never updated.",
		SourceType:  core.SourceTypeMarkdown,
		Fingerprint: core.Fingerprint("Never updated."),
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalMemory(MarshalMemory(memory))
	require.NoError(t, err)
	assert.True(t, decoded.UpdatedAt.IsZero())
}

func TestUnmarshalMemory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalMemory(tt.data)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}
