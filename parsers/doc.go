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


// Package parsers turns raw captured text into ordered chunks ready for
// enrichment.
//
// A closed set of three strategies covers the supported source types:
//
//   - DocumentParser: markdown/code, chunked along heading lines with a
//     nested header tree
//   - ChatParser: telegram/slack JSON exports, one chunk per message
//   - TranscriptParser: audio transcriptions, JSON speaker segments or
//     plain paragraphs
//
// ForSourceType dispatches on the content's source type and falls back to
// the document strategy for anything unrecognized, so parsing never fails
// on the dispatch itself. Every strategy attaches the SHA-256 fingerprint
// of the raw text, the identity later used for idempotent storage.
//
// Parsers are stateless; a single instance may be shared across goroutines.
package parsers
