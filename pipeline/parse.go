package pipeline

import (
	"strings"

	"github.com/poiesic/exocortex/core"
	"github.com/poiesic/exocortex/parsers"
)

// Parse turns raw content into chunks plus structure using the strategy
// registered for its source type. Unrecognized source types fall back to the
// document strategy. Parse is pure computation and takes no context.
func (o *Orchestrator) Parse(raw *core.RawContent) (*core.ParsedContent, *core.Error) {
	if raw == nil {
		return nil, core.NewError(core.ErrCodeParse, "raw content is nil")
	}
	if strings.TrimSpace(raw.Text) == "" {
		return nil, core.NewError(core.ErrCodeParse, "raw content text is empty")
	}

	sourceType, known := core.ParseSourceType(string(raw.SourceType))
	if !known {
		o.logger.Debug("unknown source type, using document strategy",
			"source_type", string(raw.SourceType))
	}

	parser := parsers.ForSourceType(sourceType)
	parsed, err := parser.Parse(raw)
	if err != nil {
		return nil, core.NewError(core.ErrCodeParse, "content could not be parsed").
			WithDetail("source_type", string(sourceType)).
			WithDetail("cause", err.Error())
	}
	return parsed, nil
}
