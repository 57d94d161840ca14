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


// Package ai provides abstractions for the AI services the pipeline
// consumes.
//
// Two capability interfaces cover everything the pipeline needs:
//
//   - LanguageModel: structured enrichment and grounded answer generation
//   - Embedder: vector embeddings for semantic search
//
// The split matters because a single provider may implement both. The
// openai sub-package's Provider does exactly that, so one configured
// service can serve enrichment, generation and embeddings; the pipeline
// orchestrator detects the dual capability once at construction.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM, OpenAI itself)
//   - ai/mock: test doubles with injectable behavior and call counting
//
// # Constructor Return Type Pattern
//
// openai.NewProvider returns the concrete *openai.Provider because callers
// need a type that satisfies both capability interfaces plus Close; they
// assign it to the narrow interface they consume. Mock constructors return
// concrete types so tests can inject behavior and read call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	enriched, err := provider.Enrich(ctx, "Alice will send the proposal Friday")
//	vector, err := provider.EmbedText(ctx, enriched.Summary)
package ai
