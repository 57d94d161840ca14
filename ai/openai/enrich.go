// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/exocortex/core"
)

// enrichResponse mirrors the JSON schema the enrichment prompt asks for.
// Entities stay raw because models emit them either as a list of objects or
// as a map of type to names.
type enrichResponse struct {
	Intents     []string         `json:"intents"`
	Confidence  *float64         `json:"confidence"`
	Entities    json.RawMessage  `json:"entities"`
	Commitments []commitmentJSON `json:"commitments"`
	Summary     string           `json:"summary"`
	Topics      []string         `json:"topics"`
}

type entityJSON struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Confidence *float64 `json:"confidence"`
	Normalized string   `json:"normalized"`
}

type commitmentJSON struct {
	FromParty   string `json:"from_party"`
	ToParty     string `json:"to_party"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

// Enrich extracts structured information from text using the chat model in
// JSON mode. Malformed JSON responses are re-asked up to 3 times.
func (p *Provider) Enrich(ctx context.Context, text string) (*core.EnrichedContent, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(enrichSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart("Analyze the following text:\n\n" + text),
			},
		},
	}

	var enriched *core.EnrichedContent
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := p.chat.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			p.logger.Error("enrichment call failed", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			lastErr = errNoChoices
			continue
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		enriched, err = decodeEnrichment([]byte(responseText))
		if err != nil {
			lastErr = err
			p.logger.Warn("error parsing enrichment response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		p.logger.Error("failed to parse enrichment response after retries", "err", lastErr)
		return nil, lastErr
	}

	p.logger.Debug("enriched content",
		"intents", len(enriched.Intents),
		"entities", len(enriched.Entities),
		"commitments", len(enriched.Commitments))
	return enriched, nil
}

// decodeEnrichment maps the model's JSON into the typed model, applying the
// defensive defaults the pipeline relies on: unknown intents are dropped,
// both entity shapes normalize to a flat list, incomplete commitments are
// dropped, and an empty summary becomes a placeholder instead of an error.
func decodeEnrichment(data []byte) (*core.EnrichedContent, error) {
	var resp enrichResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	enriched := &core.EnrichedContent{Confidence: 0.8}
	if resp.Confidence != nil {
		enriched.Confidence = clamp01(*resp.Confidence)
	}

	for _, raw := range resp.Intents {
		if intent, ok := core.ParseIntent(raw); ok {
			enriched.Intents = append(enriched.Intents, intent)
		}
	}

	enriched.Entities = decodeEntities(resp.Entities)

	for _, c := range resp.Commitments {
		if c.FromParty == "" || c.ToParty == "" || c.Description == "" {
			continue
		}
		commitment := core.Commitment{
			FromParty:   c.FromParty,
			ToParty:     c.ToParty,
			Description: c.Description,
			DueDate:     parseDueDate(c.DueDate),
			Status:      core.ParseCommitmentStatus(c.Status),
		}
		enriched.Commitments = append(enriched.Commitments, commitment)
	}

	summary := strings.TrimSpace(resp.Summary)
	if summary == "" {
		summary = "Summary unavailable."
	}
	if runes := []rune(summary); len(runes) > core.MaxSummaryLength {
		summary = string(runes[:core.MaxSummaryLength])
	}
	enriched.Summary = summary

	if len(resp.Topics) > core.MaxTopics {
		resp.Topics = resp.Topics[:core.MaxTopics]
	}
	enriched.Topics = resp.Topics

	return enriched, nil
}

// decodeEntities accepts both entity shapes models produce: a list of
// {name, type, confidence, normalized} objects, or a map of type to a list
// of names. Map entries get the default confidence.
func decodeEntities(raw json.RawMessage) []core.Entity {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var list []entityJSON
	if err := json.Unmarshal(raw, &list); err == nil {
		var out []core.Entity
		for _, e := range list {
			if e.Name == "" {
				continue
			}
			confidence := 0.8
			if e.Confidence != nil {
				confidence = clamp01(*e.Confidence)
			}
			entityType := e.Type
			if entityType == "" {
				entityType = "other"
			}
			out = append(out, core.Entity{
				Name:       e.Name,
				Type:       entityType,
				Confidence: confidence,
				Normalized: e.Normalized,
			})
		}
		return out
	}

	var grouped map[string][]string
	if err := json.Unmarshal(raw, &grouped); err != nil {
		return nil
	}
	types := make([]string, 0, len(grouped))
	for t := range grouped {
		types = append(types, t)
	}
	sort.Strings(types)

	var out []core.Entity
	for _, t := range types {
		for _, name := range grouped[t] {
			if name == "" {
				continue
			}
			out = append(out, core.Entity{Name: name, Type: t, Confidence: 0.8})
		}
	}
	return out
}

// parseDueDate reads an ISO date out of the model's due_date field. The
// prompt asks for "YYYY-MM-DD or null"; some models emit the string "null".
func parseDueDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// stripCodeFences removes markdown code fences models wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
