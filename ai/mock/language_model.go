package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/exocortex/core"
)

// MockLanguageModel is a test double for ai.LanguageModel.
// It allows custom behavior injection via function fields.
type MockLanguageModel struct {
	// EnrichFunc is called by Enrich if set.
	// If nil, uses default deterministic behavior.
	EnrichFunc func(ctx context.Context, text string) (*core.EnrichedContent, error)

	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, question string, contexts []string) (string, error)

	mu            sync.Mutex
	enrichCalls   int
	generateCalls int
}

// NewMockLanguageModel creates a mock language model with default behavior.
func NewMockLanguageModel() *MockLanguageModel {
	return &MockLanguageModel{}
}

// Enrich produces a deterministic enrichment: the summary is a prefix of the
// input and the content is tagged unclassified.
func (m *MockLanguageModel) Enrich(ctx context.Context, text string) (*core.EnrichedContent, error) {
	m.mu.Lock()
	m.enrichCalls++
	m.mu.Unlock()

	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx, text)
	}

	summary := strings.TrimSpace(text)
	if runes := []rune(summary); len(runes) > 100 {
		summary = string(runes[:100])
	}
	if summary == "" {
		summary = "Summary unavailable."
	}

	return &core.EnrichedContent{
		Intents:    []core.Intent{core.IntentUnclassified},
		Confidence: 0.9,
		Summary:    summary,
	}, nil
}

// Generate produces a deterministic answer referencing the question.
func (m *MockLanguageModel) Generate(ctx context.Context, question string, contexts []string) (string, error) {
	m.mu.Lock()
	m.generateCalls++
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, question, contexts)
	}

	return "Mock answer to: " + question, nil
}

// EnrichCalls returns the number of times Enrich was called.
func (m *MockLanguageModel) EnrichCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enrichCalls
}

// GenerateCalls returns the number of times Generate was called.
func (m *MockLanguageModel) GenerateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateCalls
}

// ResetCalls clears the call counts and custom functions.
func (m *MockLanguageModel) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrichCalls = 0
	m.generateCalls = 0
	m.EnrichFunc = nil
	m.GenerateFunc = nil
}
