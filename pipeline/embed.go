package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/poiesic/exocortex/core"
)

// Origin carries the source facts of the content being embedded: where it
// came from and the original raw text the fingerprint is computed from.
type Origin struct {
	SourceType string
	SourceFile string
	RawText    string
}

// Embed vectorizes the enrichment summary and assembles the storable Memory.
// The fingerprint is computed from the original raw text, not the summary,
// so re-ingesting identical source content stays idempotent even when the
// enrichment output drifts between model calls.
func (o *Orchestrator) Embed(ctx context.Context, enriched *core.EnrichedContent, origin Origin) (*core.Memory, *core.Error) {
	if enriched == nil {
		return nil, core.NewError(core.ErrCodeEmbed, "enriched content is nil")
	}
	if strings.TrimSpace(enriched.Summary) == "" {
		return nil, core.NewError(core.ErrCodeEmbed, "summary is empty")
	}

	vector, err := o.embedder.EmbedText(ctx, enriched.Summary)
	if err != nil {
		return nil, toExoError(core.ErrCodeEmbed, "embedding failed", err)
	}
	if len(vector) == 0 {
		return nil, core.NewError(core.ErrCodeEmbed, "provider returned an empty vector").
			AsRecoverable()
	}

	sourceType, _ := core.ParseSourceType(origin.SourceType)

	content := origin.RawText
	fingerprintSource := origin.RawText
	if strings.TrimSpace(fingerprintSource) == "" {
		content = enriched.Summary
		fingerprintSource = enriched.Summary
	}

	return &core.Memory{
		Content:     content,
		Summary:     enriched.Summary,
		Intents:     intentStrings(enriched.Intents),
		Entities:    groupEntities(enriched.Entities),
		Commitments: commitmentRecords(enriched.Commitments),
		Embedding:   vector,
		SourceType:  sourceType,
		SourceFile:  origin.SourceFile,
		Fingerprint: core.Fingerprint(fingerprintSource),
	}, nil
}

func intentStrings(intents []core.Intent) []string {
	if len(intents) == 0 {
		return nil
	}
	out := make([]string, len(intents))
	for i, intent := range intents {
		out[i] = string(intent)
	}
	return out
}

// groupEntities regroups the flat entity list by type so the type string is
// stored once per group. Entities without a type land under "other".
func groupEntities(entities []core.Entity) map[string][]core.EntityRecord {
	if len(entities) == 0 {
		return nil
	}
	grouped := make(map[string][]core.EntityRecord)
	for _, e := range entities {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		entityType := strings.TrimSpace(e.Type)
		if entityType == "" {
			entityType = "other"
		}
		grouped[entityType] = append(grouped[entityType], core.EntityRecord{
			Name:       e.Name,
			Confidence: e.Confidence,
			Normalized: e.Normalized,
		})
	}
	if len(grouped) == 0 {
		return nil
	}
	return grouped
}

// commitmentRecords flattens commitments to their persisted form: due date
// as an ISO date string (empty when absent), status defaulted to open.
func commitmentRecords(commitments []core.Commitment) []core.CommitmentRecord {
	if len(commitments) == 0 {
		return nil
	}
	records := make([]core.CommitmentRecord, len(commitments))
	for i, c := range commitments {
		dueDate := ""
		if c.DueDate != nil {
			dueDate = c.DueDate.Format(time.DateOnly)
		}
		records[i] = core.CommitmentRecord{
			FromParty:   c.FromParty,
			ToParty:     c.ToParty,
			Description: c.Description,
			DueDate:     dueDate,
			Status:      string(core.ParseCommitmentStatus(string(c.Status))),
		}
	}
	return records
}
