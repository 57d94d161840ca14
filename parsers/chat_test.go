package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/exocortex/core"
)

const telegramExport = `{
	"name": "Project Chat",
	"type": "private_group",
	"messages": [
		{"type": "service", "actor": "Alice", "action": "create_group", "date": "2026-01-10T09:00:00"},
		{"type": "message", "from": "Alice", "date": "2026-01-10T09:01:00", "text": "I'll send the proposal tomorrow"},
		{"type": "message", "from": "Bob", "date": "2026-01-11T14:30:00", "text": [
			"Sounds good, see ",
			{"type": "link", "text": "the draft"},
			" for context"
		]},
		{"type": "message", "from": "Alice", "date": "2026-01-12T08:15:00", "text": ""}
	]
}`

func TestChatParserTelegramExport(t *testing.T) {
	parsed, err := NewChatParser().Parse(core.NewRawContent(telegramExport, core.SourceTypeTelegram))
	require.NoError(t, err)

	// Service message and the empty-text message are skipped.
	require.Len(t, parsed.Chunks, 2)
	assert.Equal(t, "Alice: I'll send the proposal tomorrow", parsed.Chunks[0])
	assert.Equal(t, "Bob: Sounds good, see the draft for context", parsed.Chunks[1])

	s := parsed.Structure
	assert.Equal(t, "Project Chat", s.ChatName)
	assert.Equal(t, "private_group", s.ChatType)
	assert.Equal(t, []string{"Alice", "Bob"}, s.Participants)
	assert.Equal(t, 2, s.MessageCount)
	require.NotNil(t, s.DateRange)
	assert.Equal(t, "2026-01-10T09:01:00", s.DateRange.Start)
	assert.Equal(t, "2026-01-11T14:30:00", s.DateRange.End)
}

func TestChatParserValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"valid export", `{"messages": []}`, true},
		{"not json", "just some text", false},
		{"json without messages", `{"name": "chat"}`, false},
		{"json array", `[{"text": "hi"}]`, false},
		{"empty", "  ", false},
	}

	p := NewChatParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Validate(core.NewRawContent(tt.text, core.SourceTypeTelegram))
			assert.Equal(t, tt.ok, got)
		})
	}
}

func TestChatParserRejectsNonJSON(t *testing.T) {
	_, err := NewChatParser().Parse(core.NewRawContent("hello there", core.SourceTypeSlack))
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestChatParserNoUsableMessages(t *testing.T) {
	export := `{"messages": [{"type": "service", "date": "2026-01-01T00:00:00"}]}`
	_, err := NewChatParser().Parse(core.NewRawContent(export, core.SourceTypeTelegram))
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestChatParserMissingSender(t *testing.T) {
	export := `{"messages": [{"type": "message", "text": "orphan line"}]}`
	parsed, err := NewChatParser().Parse(core.NewRawContent(export, core.SourceTypeSlack))
	require.NoError(t, err)

	require.Len(t, parsed.Chunks, 1)
	assert.Equal(t, "Unknown: orphan line", parsed.Chunks[0])
	assert.Nil(t, parsed.Structure.DateRange)
}
