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


// Package openai implements the ai capability interfaces against
// OpenAI-compatible APIs.
//
// The Provider uses the langchaingo library to talk to OpenAI or compatible
// services (Ollama, LocalAI, vLLM): chat completions in JSON mode for
// enrichment, a plain completion for answer generation, and the embeddings
// endpoint for vectors. One Provider implements both ai.LanguageModel and
// ai.Embedder.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithChatModel("qwen2.5:3b"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	enriched, err := provider.Enrich(ctx, "Bob will review the contract by Friday")
//	vector, err := provider.EmbedText(ctx, enriched.Summary)
package openai
