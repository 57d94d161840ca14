package mock

// MockProvider bundles a MockLanguageModel and a MockEmbedder in one value,
// mirroring the production provider that implements both capabilities. Tests
// that exercise the orchestrator's capability detection pass a MockProvider
// as the language model and let the embedder be discovered.
type MockProvider struct {
	*MockLanguageModel
	*MockEmbedder
}

// NewMockProvider creates a dual-capability mock with default behavior.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockLanguageModel: NewMockLanguageModel(),
		MockEmbedder:      NewMockEmbedder(),
	}
}
