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
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/exocortex/core"
)

// headerPattern matches a markdown heading line: 1-6 leading '#' characters
// followed by a title.
var headerPattern = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)

// DocumentParser handles structured documents (markdown notes, code files
// with comment headers). Each chunk spans from one heading to the next; text
// before the first heading becomes a leading chunk.
type DocumentParser struct{}

// NewDocumentParser returns the structured-document parsing strategy.
func NewDocumentParser() *DocumentParser {
	return &DocumentParser{}
}

func (p *DocumentParser) SourceTypes() []core.SourceType {
	return []core.SourceType{core.SourceTypeMarkdown, core.SourceTypeCode}
}

func (p *DocumentParser) Validate(content *core.RawContent) bool {
	return content != nil && strings.TrimSpace(content.Text) != ""
}

func (p *DocumentParser) Parse(content *core.RawContent) (*core.ParsedContent, error) {
	if !p.Validate(content) {
		return nil, fmt.Errorf("%w: document text is empty", ErrInvalidContent)
	}

	text := content.Text
	matches := headerPattern.FindAllStringSubmatchIndex(text, -1)

	var chunks []string
	var headers []core.Header

	if len(matches) == 0 {
		chunks = []string{strings.TrimSpace(text)}
	} else {
		if lead := strings.TrimSpace(text[:matches[0][0]]); lead != "" {
			chunks = append(chunks, lead)
		}
		for i, m := range matches {
			end := len(text)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			headers = append(headers, core.Header{
				Level:    m[3] - m[2],
				Title:    strings.TrimSpace(text[m[4]:m[5]]),
				Position: len(chunks),
			})
			chunks = append(chunks, strings.TrimSpace(text[m[0]:end]))
		}
	}

	return &core.ParsedContent{
		Raw:    content,
		Chunks: chunks,
		Structure: core.Structure{
			Headers:    headers,
			HeaderTree: buildHeaderTree(headers),
		},
		Fingerprint: core.Fingerprint(content.Text),
	}, nil
}

// buildHeaderTree nests headings by level using a stack of open nodes. For
// each heading, entries whose level is >= the new level are popped (they
// cannot be its parent); the node attaches to the remaining top, or becomes
// a root when the stack is empty. Level skips (# followed by ###) nest
// correctly.
func buildHeaderTree(headers []core.Header) []*core.HeaderNode {
	var roots []*core.HeaderNode
	var stack []*core.HeaderNode

	for _, h := range headers {
		node := &core.HeaderNode{Title: h.Title, Level: h.Level}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, node)
		}
		stack = append(stack, node)
	}

	return roots
}
