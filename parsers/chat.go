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


package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poiesic/exocortex/core"
)

// chatExport mirrors the Telegram/Slack export layout: a JSON object with a
// messages array. Message text may be a plain string or an array mixing
// strings with formatted-text objects.
type chatExport struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Type string          `json:"type"`
	From string          `json:"from"`
	Text json.RawMessage `json:"text"`
	Date string          `json:"date"`
}

// ChatParser handles conversational exports (telegram, slack). One chunk per
// message, formatted "<sender>: <text>"; service messages are skipped.
type ChatParser struct{}

// NewChatParser returns the conversational-export parsing strategy.
func NewChatParser() *ChatParser {
	return &ChatParser{}
}

func (p *ChatParser) SourceTypes() []core.SourceType {
	return []core.SourceType{core.SourceTypeTelegram, core.SourceTypeSlack}
}

// Validate requires the text to be a JSON object carrying a messages key.
func (p *ChatParser) Validate(content *core.RawContent) bool {
	if content == nil || strings.TrimSpace(content.Text) == "" {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content.Text), &obj); err != nil {
		return false
	}
	_, ok := obj["messages"]
	return ok
}

func (p *ChatParser) Parse(content *core.RawContent) (*core.ParsedContent, error) {
	if !p.Validate(content) {
		return nil, fmt.Errorf("%w: chat export must be JSON with a messages array", ErrInvalidContent)
	}

	var export chatExport
	if err := json.Unmarshal([]byte(content.Text), &export); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	var (
		chunks       []string
		participants []string
		seen         = map[string]bool{}
		minDate      string
		maxDate      string
	)

	for _, msg := range export.Messages {
		if msg.Type != "message" {
			continue
		}
		text := strings.TrimSpace(flattenMessageText(msg.Text))
		if text == "" {
			continue
		}

		sender := msg.From
		if sender == "" {
			sender = "Unknown"
		}
		if !seen[sender] {
			seen[sender] = true
			participants = append(participants, sender)
		}
		chunks = append(chunks, sender+": "+text)

		// Export timestamps are ISO-8601, so string order is date order.
		if msg.Date != "" {
			if minDate == "" || msg.Date < minDate {
				minDate = msg.Date
			}
			if msg.Date > maxDate {
				maxDate = msg.Date
			}
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: chat export contains no usable messages", ErrInvalidContent)
	}

	structure := core.Structure{
		ChatName:     export.Name,
		ChatType:     export.Type,
		Participants: participants,
		MessageCount: len(chunks),
	}
	if minDate != "" {
		structure.DateRange = &core.DateRange{Start: minDate, End: maxDate}
	}

	return &core.ParsedContent{
		Raw:         content,
		Chunks:      chunks,
		Structure:   structure,
		Fingerprint: core.Fingerprint(content.Text),
	}, nil
}

// flattenMessageText concatenates the textual parts of a message text field,
// which may be a string or an array of strings and {text: ...} objects.
func flattenMessageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var parts []any
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	var b strings.Builder
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			b.WriteString(v)
		case map[string]any:
			if t, ok := v["text"].(string); ok {
				b.WriteString(t)
			}
		}
	}
	return b.String()
}
