package pipeline

import (
	"context"
	"strings"

	"github.com/poiesic/exocortex/core"
)

const (
	// contextEncoding is the tokenizer vocabulary used to budget the answer
	// context window.
	contextEncoding = "cl100k_base"
	// maxContextTokens caps the joined context passed to the generator.
	maxContextTokens = 4000
	// previewLength is the rune cap on a Source's content preview.
	previewLength = 200
)

// Query answers a question over stored memories: embed the question, search
// by similarity, assemble context and attributions, then generate a grounded
// answer. With no matches above the threshold it synthesizes a deterministic
// answer without calling the model and reports zero confidence.
func (o *Orchestrator) Query(ctx context.Context, request *core.QueryRequest) (*core.QueryResponse, *core.Error) {
	if exoErr := request.Validate(); exoErr != nil {
		return nil, exoErr
	}

	vector, err := o.embedder.EmbedText(ctx, request.Question)
	if err != nil {
		return nil, toExoError(core.ErrCodeEmbed, "embedding question failed", err)
	}
	if len(vector) == 0 {
		return nil, core.NewError(core.ErrCodeEmbed, "provider returned an empty vector for the question").
			AsRecoverable()
	}

	matches, err := o.repository.SearchSemantic(ctx, vector,
		request.TopK, float32(request.SimilarityThreshold), request.Filters)
	if err != nil {
		return nil, toExoError(core.ErrCodeQuery, "semantic search failed", err)
	}

	response := &core.QueryResponse{
		Sources:     []core.Source{},
		Commitments: []core.CommitmentRecord{},
	}

	var contexts []string
	usedTokens := 0
	for _, match := range matches {
		passage := match.Memory.Summary
		if strings.TrimSpace(passage) == "" {
			passage = match.Memory.Content
		}

		// All matches contribute attribution and commitments; the context
		// window additionally respects the token budget.
		cost := o.tokenCount(passage)
		if len(contexts) == 0 || usedTokens+cost <= maxContextTokens {
			contexts = append(contexts, passage)
			usedTokens += cost
		}

		response.Sources = append(response.Sources, core.Source{
			MemoryId:       match.Memory.Id,
			ContentPreview: truncateRunes(passage, previewLength),
			Similarity:     float64(match.Similarity),
			SourceFile:     match.Memory.SourceFile,
		})
		response.Commitments = append(response.Commitments, match.Memory.Commitments...)

		if float64(match.Similarity) > response.Confidence {
			response.Confidence = float64(match.Similarity)
		}
	}

	if len(contexts) == 0 {
		response.Answer = "I don't have any relevant information to answer: " + request.Question
		return response, nil
	}

	answer, err := o.lm.Generate(ctx, request.Question, contexts)
	if err != nil {
		return nil, toExoError(core.ErrCodeQuery, "answer generation failed", err)
	}
	response.Answer = answer

	o.logger.Debug("query answered",
		"sources", len(response.Sources),
		"context_tokens", usedTokens,
		"confidence", response.Confidence)
	return response, nil
}

// tokenCount sizes text for the context budget, falling back to a byte
// estimate when the encoder vocabulary is unavailable.
func (o *Orchestrator) tokenCount(text string) int {
	if o.encoder == nil {
		return len(text)/4 + 1
	}
	return len(o.encoder.Encode(text, nil, nil))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
