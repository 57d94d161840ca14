package pipeline

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/poiesic/exocortex/core"
)

var (
	// ErrRepositoryRequired is returned when a memory repository is not provided.
	ErrRepositoryRequired = errors.New("memory repository required")

	// ErrLanguageModelRequired is returned when a language model is not provided.
	ErrLanguageModelRequired = errors.New("language model required")

	// ErrEmbedderRequired is returned when no embedder is provided and the
	// language model does not implement the embedding capability.
	ErrEmbedderRequired = errors.New("embedder required")
)

// toExoError converts a stage failure into the structured error taxonomy.
// Errors that already carry a code pass through untouched; connectivity
// failures against the provider become provider-unavailable; everything else
// gets the stage's own code. Both classifications are recoverable.
func toExoError(code core.ErrorCode, message string, err error) *core.Error {
	var exoErr *core.Error
	if errors.As(err, &exoErr) {
		return exoErr
	}
	if isProviderUnavailable(err) {
		return core.NewError(core.ErrCodeProviderUnavailable, message).
			WithDetail("cause", err.Error()).
			AsRecoverable()
	}
	return core.NewError(code, message).
		WithDetail("cause", err.Error()).
		AsRecoverable()
}

// isProviderUnavailable reports whether the error looks like a connectivity
// failure rather than a semantic one.
func isProviderUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
