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


// Package exocortex assembles the knowledge-capture system from its parts:
// storage backend, AI provider, pipeline orchestrator. Open is the single
// environment-facing factory; the pipeline itself never reads configuration.
package exocortex

import (
	"log/slog"

	"github.com/poiesic/exocortex/ai"
	"github.com/poiesic/exocortex/ai/openai"
	"github.com/poiesic/exocortex/pipeline"
	"github.com/poiesic/exocortex/storage"
	"github.com/poiesic/exocortex/storage/badger"
)

// Config describes how to assemble a System.
type Config struct {
	// DBPath is the BadgerDB directory. Ignored when InMemory is set.
	DBPath string
	// InMemory opens an ephemeral database, mainly for tests and trials.
	InMemory bool
	// AI configures the provider; nil uses ai.DefaultConfig().
	AI *ai.Config
}

// System is a fully wired exocortex instance: storage, provider and
// orchestrator with a shared lifecycle.
type System struct {
	backend      *badger.Backend
	repository   storage.MemoryRepository
	provider     *openai.Provider
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
}

// Open assembles a System from the config.
func Open(config Config, opts ...pipeline.Option) (*System, error) {
	aiConfig := config.AI
	if aiConfig == nil {
		aiConfig = ai.DefaultConfig()
	}

	backend, err := badger.OpenBackend(config.DBPath, config.InMemory)
	if err != nil {
		return nil, err
	}

	repository := badger.NewMemoryRepository(backend)

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		repository.Close()
		backend.Close()
		return nil, err
	}

	// The provider implements both capabilities, so the orchestrator reuses
	// it as the embedder.
	orchestrator, err := pipeline.NewOrchestrator(repository, provider, opts...)
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		backend:      backend,
		repository:   repository,
		provider:     provider,
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}, nil
}

// Orchestrator returns the pipeline orchestrator.
func (s *System) Orchestrator() *pipeline.Orchestrator {
	return s.orchestrator
}

// Repository returns the memory repository.
func (s *System) Repository() storage.MemoryRepository {
	return s.repository
}

// Close releases the orchestrator, provider and storage in reverse
// construction order.
func (s *System) Close() error {
	s.orchestrator.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.repository.Close(); err != nil {
		s.logger.Error("error closing memory repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
