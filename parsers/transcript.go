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
	"regexp"
	"strings"

	"github.com/poiesic/exocortex/core"
)

type transcriptDoc struct {
	Text     string              `json:"text"`
	Segments []transcriptSegment `json:"segments"`
}

type transcriptSegment struct {
	Speaker string   `json:"speaker"`
	Text    string   `json:"text"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
}

var paragraphSplit = regexp.MustCompile(`\n[ \t]*\n`)

// TranscriptParser handles audio transcriptions, either JSON documents with
// speaker segments or free-form paragraph text.
type TranscriptParser struct{}

// NewTranscriptParser returns the transcript parsing strategy.
func NewTranscriptParser() *TranscriptParser {
	return &TranscriptParser{}
}

func (p *TranscriptParser) SourceTypes() []core.SourceType {
	return []core.SourceType{core.SourceTypeAudio}
}

// Validate requires non-empty text; text that opens with '{' must be a JSON
// object (a segments array is optional).
func (p *TranscriptParser) Validate(content *core.RawContent) bool {
	if content == nil {
		return false
	}
	trimmed := strings.TrimSpace(content.Text)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		return json.Unmarshal([]byte(trimmed), &obj) == nil
	}
	return true
}

func (p *TranscriptParser) Parse(content *core.RawContent) (*core.ParsedContent, error) {
	if !p.Validate(content) {
		return nil, fmt.Errorf("%w: transcript is empty or malformed JSON", ErrInvalidContent)
	}

	trimmed := strings.TrimSpace(content.Text)

	var chunks []string
	var structure core.Structure

	if strings.HasPrefix(trimmed, "{") {
		var doc transcriptDoc
		if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		structure.Format = "json"

		if len(doc.Segments) > 0 {
			var speakers []string
			seen := map[string]bool{}
			for _, seg := range doc.Segments {
				text := strings.TrimSpace(seg.Text)
				if text == "" {
					continue
				}
				speaker := seg.Speaker
				if speaker == "" {
					speaker = "Speaker"
				}
				if !seen[speaker] {
					seen[speaker] = true
					speakers = append(speakers, speaker)
				}
				chunks = append(chunks, speaker+": "+text)
			}
			structure.Speakers = speakers
			structure.SegmentCount = len(doc.Segments)
			structure.StartTime = doc.Segments[0].Start
			structure.EndTime = doc.Segments[len(doc.Segments)-1].End
		}

		if len(chunks) == 0 {
			// No segments (or all empty): fall back to the document's text.
			text := strings.TrimSpace(doc.Text)
			if text == "" {
				text = trimmed
			}
			chunks = []string{text}
		}
	} else {
		structure.Format = "plain"
		for _, para := range paragraphSplit.Split(trimmed, -1) {
			if para = strings.TrimSpace(para); para != "" {
				chunks = append(chunks, para)
			}
		}
		if len(chunks) == 0 {
			chunks = []string{trimmed}
		}
	}

	return &core.ParsedContent{
		Raw:         content,
		Chunks:      chunks,
		Structure:   structure,
		Fingerprint: core.Fingerprint(content.Text),
	}, nil
}
