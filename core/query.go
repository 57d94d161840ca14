package core

const (
	// DefaultTopK is the result cap used when a QueryRequest does not set one.
	DefaultTopK = 10
	// MaxTopK is the hard upper bound on requested results.
	MaxTopK = 50
	// DefaultSimilarityThreshold is the minimum cosine similarity a stored
	// vector must meet when the request does not set its own threshold.
	DefaultSimilarityThreshold = 0.7
)

// QueryRequest describes a semantic question against stored memories.
type QueryRequest struct {
	Question            string            `json:"question"`
	TopK                int               `json:"top_k"`
	SimilarityThreshold float64           `json:"similarity_threshold"`
	Filters             map[string]string `json:"filters,omitempty"`
}

// NewQueryRequest builds a QueryRequest with the default top-k and threshold.
func NewQueryRequest(question string) *QueryRequest {
	return &QueryRequest{
		Question:            question,
		TopK:                DefaultTopK,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}

// Source attributes part of an answer to a stored memory.
type Source struct {
	MemoryId       string  `json:"memory_id"`
	ContentPreview string  `json:"content_preview"`
	Similarity     float64 `json:"similarity"`
	SourceFile     string  `json:"source_file,omitempty"`
}

// QueryResponse is a grounded answer with its supporting sources. Confidence
// is the maximum similarity among the sources, 0.0 when nothing matched.
type QueryResponse struct {
	Answer      string             `json:"answer"`
	Sources     []Source           `json:"sources"`
	Commitments []CommitmentRecord `json:"commitments"`
	Confidence  float64            `json:"confidence"`
}
