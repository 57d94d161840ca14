package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/exocortex/core"
	"github.com/poiesic/exocortex/storage"
)

func newTestMemory(content string) *core.Memory {
	return &core.Memory{
		Content:     content,
		Summary:     "Summary of " + content,
		Intents:     []string{string(core.IntentIdea)},
		SourceType:  core.SourceTypeMarkdown,
		SourceFile:  "notes.md",
		Fingerprint: core.Fingerprint(content),
	}
}

func TestUpsertAndGetMemory(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	memory := newTestMemory("We decided to ship the beta on Friday.")
	memory.Embedding = []float32{0.1, 0.2, 0.3}

	stored, err := repo.UpsertMemory(ctx, memory)
	if err != nil {
		t.Fatalf("Failed to upsert memory: %v", err)
	}
	if stored.Id == "" {
		t.Fatal("Expected non-empty ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}
	if !stored.UpdatedAt.IsZero() {
		t.Fatal("Expected zero UpdatedAt on insert")
	}

	retrieved, err := repo.GetMemory(ctx, stored.Id)
	if err != nil {
		t.Fatalf("Failed to get memory: %v", err)
	}
	if retrieved.Content != memory.Content {
		t.Fatalf("Expected content %q, got %q", memory.Content, retrieved.Content)
	}
	if len(retrieved.Embedding) != 3 {
		t.Fatalf("Expected 3 embedding values, got %d", len(retrieved.Embedding))
	}

	byFp, err := repo.GetMemoryByFingerprint(ctx, memory.Fingerprint)
	if err != nil {
		t.Fatalf("Failed to get memory by fingerprint: %v", err)
	}
	if byFp.Id != stored.Id {
		t.Fatalf("Expected ID %s, got %s", stored.Id, byFp.Id)
	}
}

func TestUpsertMemoryConflict(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	first, err := repo.UpsertMemory(ctx, newTestMemory("Same content, stored twice."))
	if err != nil {
		t.Fatalf("Failed to upsert first memory: %v", err)
	}
	firstID := first.Id
	firstCreated := first.CreatedAt

	second := newTestMemory("Same content, stored twice.")
	second.Summary = "A fresher summary."
	stored, err := repo.UpsertMemory(ctx, second)
	if err != nil {
		t.Fatalf("Failed to upsert second memory: %v", err)
	}

	if stored.Id != firstID {
		t.Fatalf("Expected conflict to keep ID %s, got %s", firstID, stored.Id)
	}
	if !stored.CreatedAt.Equal(firstCreated) {
		t.Fatal("Expected conflict to keep original CreatedAt")
	}
	if stored.UpdatedAt.IsZero() {
		t.Fatal("Expected UpdatedAt to be set on conflict")
	}

	retrieved, err := repo.GetMemory(ctx, firstID)
	if err != nil {
		t.Fatalf("Failed to get memory: %v", err)
	}
	if retrieved.Summary != "A fresher summary." {
		t.Fatalf("Expected updated summary, got %q", retrieved.Summary)
	}

	// Only one record should exist.
	all, err := repo.ListMemories(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list memories: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 memory, got %d", len(all))
	}
}

func TestGetMemoryNotFound(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := repo.GetMemory(ctx, "no-such-id"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetMemoryByFingerprint(ctx, "no-such-fingerprint"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSearchSemantic(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	// Normalized unit vectors with known dot products against the query.
	entries := []struct {
		content    string
		sourceType core.SourceType
		embedding  []float32
	}{
		{"Exact match", core.SourceTypeMarkdown, []float32{1, 0, 0}},
		{"Close match", core.SourceTypeSlack, []float32{0.9486833, 0.31622776, 0}},
		{"Orthogonal", core.SourceTypeMarkdown, []float32{0, 1, 0}},
	}
	for _, e := range entries {
		memory := newTestMemory(e.content)
		memory.SourceType = e.sourceType
		memory.Embedding = e.embedding
		if _, err := repo.UpsertMemory(ctx, memory); err != nil {
			t.Fatalf("Failed to upsert %q: %v", e.content, err)
		}
	}

	query := []float32{1, 0, 0}

	matches, err := repo.SearchSemantic(ctx, query, 10, 0.7, nil)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches above threshold, got %d", len(matches))
	}
	if matches[0].Memory.Content != "Exact match" {
		t.Fatalf("Expected highest similarity first, got %q", matches[0].Memory.Content)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Fatal("Expected matches ordered by similarity descending")
	}

	// topK caps the result count.
	matches, err = repo.SearchSemantic(ctx, query, 1, 0.7, nil)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match with topK=1, got %d", len(matches))
	}

	// Source type filter excludes the slack record.
	matches, err = repo.SearchSemantic(ctx, query, 10, 0.7, map[string]string{"source_type": "markdown"})
	if err != nil {
		t.Fatalf("Failed to search with filter: %v", err)
	}
	if len(matches) != 1 || matches[0].Memory.Content != "Exact match" {
		t.Fatalf("Expected only the markdown match, got %d matches", len(matches))
	}

	// High threshold excludes everything.
	matches, err = repo.SearchSemantic(ctx, []float32{0, 0, 1}, 10, 0.7, nil)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("Expected no matches, got %d", len(matches))
	}
}

func TestSearchSemanticInvalidQuery(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := repo.SearchSemantic(ctx, nil, 10, 0.7, nil); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for empty vector, got %v", err)
	}
	if _, err := repo.SearchSemantic(ctx, []float32{1}, 0, 0.7, nil); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for topK=0, got %v", err)
	}
}

func TestListMemoriesOrdering(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	contents := []string{"First note", "Second note", "Third note"}
	for _, c := range contents {
		if _, err := repo.UpsertMemory(ctx, newTestMemory(c)); err != nil {
			t.Fatalf("Failed to upsert %q: %v", c, err)
		}
		// Keep creation timestamps distinct at microsecond resolution.
		time.Sleep(2 * time.Millisecond)
	}

	results, err := repo.ListMemories(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list memories: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 memories, got %d", len(results))
	}
	if results[0].Content != "Third note" || results[1].Content != "Second note" {
		t.Fatalf("Expected newest first, got %q then %q", results[0].Content, results[1].Content)
	}
}

func TestDeleteMemory(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	stored, err := repo.UpsertMemory(ctx, newTestMemory("Disposable thought."))
	if err != nil {
		t.Fatalf("Failed to upsert memory: %v", err)
	}

	if err := repo.DeleteMemory(ctx, stored.Id); err != nil {
		t.Fatalf("Failed to delete memory: %v", err)
	}

	if _, err := repo.GetMemory(ctx, stored.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.GetMemoryByFingerprint(ctx, stored.Fingerprint); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected fingerprint index cleaned up, got %v", err)
	}
	results, err := repo.ListMemories(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list memories: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected created index cleaned up, got %d entries", len(results))
	}

	if err := repo.DeleteMemory(ctx, stored.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListCommitments(t *testing.T) {
	repo, backend, err := NewInMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	withCommitments := newTestMemory("Alice will send the report by Friday.")
	withCommitments.Commitments = []core.CommitmentRecord{
		{FromParty: "Alice", ToParty: "Bob", Description: "Send the report", DueDate: "2026-08-28", Status: "open"},
		{FromParty: "Bob", ToParty: "Alice", Description: "Review the draft", DueDate: "", Status: "complete"},
	}
	if _, err := repo.UpsertMemory(ctx, withCommitments); err != nil {
		t.Fatalf("Failed to upsert memory: %v", err)
	}
	if _, err := repo.UpsertMemory(ctx, newTestMemory("No commitments here.")); err != nil {
		t.Fatalf("Failed to upsert memory: %v", err)
	}

	all, err := repo.ListCommitments(ctx, "")
	if err != nil {
		t.Fatalf("Failed to list commitments: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 commitments, got %d", len(all))
	}

	open, err := repo.ListCommitments(ctx, "open")
	if err != nil {
		t.Fatalf("Failed to list open commitments: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("Expected 1 open commitment, got %d", len(open))
	}
	if open[0].Description != "Send the report" {
		t.Fatalf("Expected open commitment, got %q", open[0].Description)
	}
}
