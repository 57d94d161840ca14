// Package mock provides test double implementations of the AI capability
// interfaces.
//
// This package contains mocks of ai.LanguageModel and ai.Embedder for unit
// tests, so the pipeline can run without external AI services and with
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	lm := mock.NewMockLanguageModel()
//	enriched, err := lm.Enrich(ctx, "test text")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - MockLanguageModel: deterministic summary from the input prefix, a
//     canned answer for generation
//   - MockEmbedder: deterministic vectors based on text hash
//   - MockProvider: one value carrying both, like the production provider
package mock
