package ai

import (
	"context"

	"github.com/poiesic/exocortex/core"
)

// LanguageModel is the generation capability the pipeline consumes: it turns
// text into structured enrichment and answers questions over retrieved
// context. Implementations must be safe for concurrent use.
type LanguageModel interface {
	// Enrich extracts intents, entities, commitments, a summary and topics
	// from the text. The result always satisfies the EnrichedContent
	// invariants (non-empty summary, known intents, complete commitments).
	Enrich(ctx context.Context, text string) (*core.EnrichedContent, error)

	// Generate produces a grounded answer to the question using the given
	// context passages. It is only called with non-empty context.
	Generate(ctx context.Context, question string, contexts []string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be safe for concurrent use.
//
// A provider may implement both LanguageModel and Embedder; the orchestrator
// checks for the embedding capability once at construction and reuses the
// language model for both roles when it qualifies.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch, in the
	// same order as the input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
