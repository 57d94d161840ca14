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
	"errors"

	"github.com/poiesic/exocortex/core"
)

// ErrInvalidContent indicates raw content failed a strategy's validation or
// could not be parsed by the strategy matched to its source type.
var ErrInvalidContent = errors.New("invalid content")

// Parser turns raw content of its supported source types into parsed chunks
// plus a structure summary. Implementations are stateless and safe for
// concurrent use.
type Parser interface {
	// SourceTypes lists the source types this parser handles.
	SourceTypes() []core.SourceType

	// Validate reports whether the raw content looks parseable by this
	// strategy. It never mutates the content.
	Validate(content *core.RawContent) bool

	// Parse produces the chunks, structure and fingerprint for the content.
	// It wraps ErrInvalidContent when the content fails validation.
	Parse(content *core.RawContent) (*core.ParsedContent, error)
}

// The strategy set is closed: three concrete parsers, registered once.
var registry = buildRegistry()

func buildRegistry() map[core.SourceType]Parser {
	r := make(map[core.SourceType]Parser)
	for _, p := range []Parser{
		NewDocumentParser(),
		NewChatParser(),
		NewTranscriptParser(),
	} {
		for _, st := range p.SourceTypes() {
			r[st] = p
		}
	}
	return r
}

// ForSourceType returns the parser registered for sourceType. Unknown types
// fall back to the document parser, the most permissive strategy.
func ForSourceType(sourceType core.SourceType) Parser {
	if p, ok := registry[sourceType]; ok {
		return p
	}
	return registry[core.SourceTypeMarkdown]
}
