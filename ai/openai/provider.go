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
	"errors"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/exocortex/ai"
)

// errNoChoices indicates the chat API answered without any completion choice.
var errNoChoices = errors.New("model returned no choices")

// Provider backs both AI capabilities with OpenAI-compatible services: chat
// completions for enrichment and generation, the embeddings endpoint for
// vectors. One Provider instance satisfies ai.LanguageModel and ai.Embedder,
// so a single configured service can serve every pipeline stage.
type Provider struct {
	config   *ai.Config
	chat     llms.Model
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var (
	_ ai.LanguageModel = (*Provider)(nil)
	_ ai.Embedder      = (*Provider)(nil)
)

// NewProvider creates a provider from the given configuration. The config is
// validated and normalized before use.
//
// Returns the concrete type because callers assign it to both capability
// interfaces.
func NewProvider(config *ai.Config) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	chat, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	embedClient, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.Token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(embedClient, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		chat:     chat,
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-provider"),
	}, nil
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
