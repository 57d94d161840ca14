package pipeline

import (
	"context"
	"strings"

	"github.com/poiesic/exocortex/core"
)

// Enrich sends the parsed chunks to the language model and returns its
// structured reading. The chunks are joined with a blank-line separator;
// an empty joined text is an enrich-error without calling the model.
func (o *Orchestrator) Enrich(ctx context.Context, parsed *core.ParsedContent) (*core.EnrichedContent, *core.Error) {
	if parsed == nil {
		return nil, core.NewError(core.ErrCodeEnrich, "parsed content is nil")
	}

	joined := strings.TrimSpace(strings.Join(parsed.Chunks, "\n\n"))
	if joined == "" {
		return nil, core.NewError(core.ErrCodeEnrich, "nothing to enrich")
	}

	enriched, err := o.lm.Enrich(ctx, joined)
	if err != nil {
		return nil, toExoError(core.ErrCodeEnrich, "enrichment failed", err)
	}
	return enriched, nil
}
