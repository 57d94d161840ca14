package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkoukk/tiktoken-go"
	"github.com/poiesic/exocortex/ai"
	"github.com/poiesic/exocortex/core"
	"github.com/poiesic/exocortex/storage"
)

// Orchestrator owns the three external handles of the capture pipeline
// (storage, language model, embedder) and composes the stages. It is created
// once per process and is safe for concurrent use; the handles it holds are
// required to be concurrency-safe themselves.
type Orchestrator struct {
	repository storage.MemoryRepository
	lm         ai.LanguageModel
	embedder   ai.Embedder
	pool       *ants.Pool
	encoder    *tiktoken.Tiktoken
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithEmbedder sets an explicit embedding provider. Without this option the
// language model is reused when it implements the embedding capability.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *Orchestrator) error {
		o.embedder = embedder
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger.With("component", "pipeline")
		return nil
	}
}

// WithPoolSize sets the worker pool size used by IngestBatch.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// NewOrchestrator creates the pipeline orchestrator. The embedding capability
// is resolved once here: an explicit WithEmbedder wins, otherwise the language
// model is checked for conformance and reused for both roles.
func NewOrchestrator(repository storage.MemoryRepository, lm ai.LanguageModel, opts ...Option) (*Orchestrator, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if lm == nil {
		return nil, ErrLanguageModelRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		repository: repository,
		lm:         lm,
		pool:       pool,
		logger:     slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	if o.embedder == nil {
		embedder, ok := lm.(ai.Embedder)
		if !ok {
			o.Release()
			return nil, ErrEmbedderRequired
		}
		o.embedder = embedder
	}

	// The encoder is only a sizing aid for the query context window; when the
	// vocabulary cannot be loaded we fall back to a byte estimate.
	encoder, err := tiktoken.GetEncoding(contextEncoding)
	if err != nil {
		o.logger.Warn("token encoder unavailable, using byte estimate", "encoding", contextEncoding, "err", err)
	} else {
		o.encoder = encoder
	}

	return o, nil
}

// Ingest runs the full capture pipeline: parse, enrich, embed, store. The
// composition short-circuits on the first stage error; later stages are never
// invoked.
func (o *Orchestrator) Ingest(ctx context.Context, raw *core.RawContent) (*core.Memory, *core.Error) {
	parsed, exoErr := o.Parse(raw)
	if exoErr != nil {
		return nil, exoErr
	}

	enriched, exoErr := o.Enrich(ctx, parsed)
	if exoErr != nil {
		return nil, exoErr
	}

	memory, exoErr := o.Embed(ctx, enriched, Origin{
		SourceType: string(parsed.Raw.SourceType),
		SourceFile: parsed.Raw.SourceFile,
		RawText:    parsed.Raw.Text,
	})
	if exoErr != nil {
		return nil, exoErr
	}

	return o.Store(ctx, memory)
}

// IngestBatch runs Ingest for each input on the worker pool. Results and
// errors are positionally aligned with the inputs; one failed item does not
// affect the others.
func (o *Orchestrator) IngestBatch(ctx context.Context, contents []*core.RawContent) ([]*core.Memory, []*core.Error) {
	memories := make([]*core.Memory, len(contents))
	errs := make([]*core.Error, len(contents))

	var wg sync.WaitGroup
	for i, raw := range contents {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			memories[i], errs[i] = o.Ingest(ctx, raw)
		}
		if submitErr := o.pool.Submit(task); submitErr != nil {
			// Pool saturated or released; run inline rather than drop the item.
			o.logger.Warn("pool submit failed, running inline", "err", submitErr)
			task()
		}
	}
	wg.Wait()

	return memories, errs
}

// Release releases the worker pool. The orchestrator should not be used after
// calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}
