package openai

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/exocortex/core"
)

func TestDecodeEnrichmentFull(t *testing.T) {
	response := `{
		"intents": ["decision", "commitment"],
		"confidence": 0.92,
		"entities": [
			{"name": "Alice", "type": "person", "confidence": 0.95},
			{"name": "Acme Corp", "type": "company", "confidence": 0.9, "normalized": "acme"}
		],
		"commitments": [
			{"from_party": "Alice", "to_party": "Bob", "description": "send the proposal", "due_date": "2026-03-15", "status": "open"}
		],
		"summary": "Alice committed to sending Bob the proposal by mid March.",
		"topics": ["proposal", "planning"]
	}`

	enriched, err := decodeEnrichment([]byte(response))
	require.NoError(t, err)

	assert.Equal(t, []core.Intent{core.IntentDecision, core.IntentCommitment}, enriched.Intents)
	assert.Equal(t, 0.92, enriched.Confidence)

	require.Len(t, enriched.Entities, 2)
	assert.Equal(t, "Alice", enriched.Entities[0].Name)
	assert.Equal(t, "person", enriched.Entities[0].Type)
	assert.Equal(t, "acme", enriched.Entities[1].Normalized)

	require.Len(t, enriched.Commitments, 1)
	c := enriched.Commitments[0]
	assert.Equal(t, "Alice", c.FromParty)
	assert.Equal(t, core.CommitmentOpen, c.Status)
	require.NotNil(t, c.DueDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), c.DueDate.UTC())

	assert.Equal(t, []string{"proposal", "planning"}, enriched.Topics)
}

func TestDecodeEnrichmentEntityShapes(t *testing.T) {
	// The same entity expressed as a list of objects and as a type map must
	// normalize to equivalent results.
	asList := `{"entities": [{"name": "John", "type": "person", "confidence": 0.8}], "summary": "s"}`
	asMap := `{"entities": {"person": ["John"]}, "summary": "s"}`

	fromList, err := decodeEnrichment([]byte(asList))
	require.NoError(t, err)
	fromMap, err := decodeEnrichment([]byte(asMap))
	require.NoError(t, err)

	assert.Equal(t, fromList.Entities, fromMap.Entities)
	require.Len(t, fromMap.Entities, 1)
	assert.Equal(t, "John", fromMap.Entities[0].Name)
	assert.Equal(t, "person", fromMap.Entities[0].Type)
	assert.Equal(t, 0.8, fromMap.Entities[0].Confidence)
}

func TestDecodeEnrichmentDefensiveDefaults(t *testing.T) {
	response := `{
		"intents": ["decision", "prophecy", "task"],
		"entities": null,
		"commitments": [
			{"from_party": "Alice", "description": "no recipient"},
			{"from_party": "Alice", "to_party": "Bob", "description": "complete one", "due_date": "null", "status": "complete"}
		],
		"summary": "",
		"topics": []
	}`

	enriched, err := decodeEnrichment([]byte(response))
	require.NoError(t, err)

	// Unknown intent tokens are dropped, not rejected.
	assert.Equal(t, []core.Intent{core.IntentDecision, core.IntentTask}, enriched.Intents)

	// Confidence defaults when absent.
	assert.Equal(t, 0.8, enriched.Confidence)

	// The commitment missing to_party is dropped; "null" due date reads as none.
	require.Len(t, enriched.Commitments, 1)
	assert.Equal(t, core.CommitmentComplete, enriched.Commitments[0].Status)
	assert.Nil(t, enriched.Commitments[0].DueDate)

	// Empty summary becomes a placeholder rather than a validation failure.
	assert.Equal(t, "Summary unavailable.", enriched.Summary)
}

func TestDecodeEnrichmentClampsAndTruncates(t *testing.T) {
	long := strings.Repeat("a", core.MaxSummaryLength+100)
	response := `{"confidence": 1.7, "summary": "` + long + `", "topics": ["a","b","c","d","e","f","g","h","i","j","k","l"]}`

	enriched, err := decodeEnrichment([]byte(response))
	require.NoError(t, err)

	assert.Equal(t, 1.0, enriched.Confidence)
	assert.Len(t, enriched.Summary, core.MaxSummaryLength)
	assert.Len(t, enriched.Topics, core.MaxTopics)
}

func TestDecodeEnrichmentMalformed(t *testing.T) {
	_, err := decodeEnrichment([]byte(`{"intents": [`))
	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	fenced := "```json\n{\"summary\": \"s\"}\n```"
	assert.Equal(t, `{"summary": "s"}`, stripCodeFences(fenced))
	assert.Equal(t, `{"a":1}`, stripCodeFences("{\"a\":1}"))
}

func TestParseDueDate(t *testing.T) {
	assert.Nil(t, parseDueDate(""))
	assert.Nil(t, parseDueDate("null"))
	assert.Nil(t, parseDueDate("sometime soon"))

	due := parseDueDate("2026-01-31")
	require.NotNil(t, due)
	assert.Equal(t, 2026, due.Year())

	rfc := parseDueDate("2026-01-31T12:00:00Z")
	require.NotNil(t, rfc)
	assert.Equal(t, 12, rfc.Hour())
}

func TestRepairJSONMissingOpeningQuote(t *testing.T) {
	broken := `{"name": "x", type": "person"}`
	assert.Equal(t, `{"name": "x", "type": "person"}`, repairJSON(broken))
}
