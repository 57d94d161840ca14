package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/poiesic/exocortex/core"
	"github.com/poiesic/exocortex/pipeline"
	"github.com/poiesic/exocortex/storage"
)

// Server is the JSON front-end over the two pipeline entry points plus the
// repository's read views. It contains no pipeline logic: handlers map
// transport input onto the content model and map results back to HTTP.
type Server struct {
	orchestrator *pipeline.Orchestrator
	repository   storage.MemoryRepository
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "api")
	}
}

// NewServer creates an API server over the given orchestrator and repository.
func NewServer(orchestrator *pipeline.Orchestrator, repository storage.MemoryRepository, opts ...Option) (*Server, error) {
	if orchestrator == nil {
		return nil, errors.New("orchestrator required")
	}
	if repository == nil {
		return nil, errors.New("memory repository required")
	}

	s := &Server{
		orchestrator: orchestrator,
		repository:   repository,
		logger:       slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ingest", s.ingest)
	mux.HandleFunc("POST /query", s.query)

	mux.HandleFunc("GET /memories", s.listMemories)
	mux.HandleFunc("GET /memories/{id}", s.getMemory)
	mux.HandleFunc("GET /commitments", s.listCommitments)

	mux.HandleFunc("GET /health", s.health)

	return mux
}

// Run starts the HTTP server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// IngestRequest is the request body for capturing content.
type IngestRequest struct {
	Text       string            `json:"text"`
	SourceType string            `json:"source_type"`
	SourceFile string            `json:"source_file,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (s *Server) ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sourceType, _ := core.ParseSourceType(req.SourceType)
	raw := core.NewRawContent(req.Text, sourceType)
	raw.SourceFile = req.SourceFile
	raw.Metadata = req.Metadata

	if exoErr := core.ValidateRawContent(raw); exoErr != nil {
		writeExoError(w, exoErr)
		return
	}

	memory, exoErr := s.orchestrator.Ingest(r.Context(), raw)
	if exoErr != nil {
		s.logger.Error("ingest failed", "code", string(exoErr.Code), "err", exoErr.Message)
		writeExoError(w, exoErr)
		return
	}

	writeJSON(w, http.StatusCreated, memory)
}

// QueryBody is the request body for asking a question.
type QueryBody struct {
	Question            string            `json:"question"`
	TopK                int               `json:"top_k,omitempty"`
	SimilarityThreshold float64           `json:"similarity_threshold,omitempty"`
	Filters             map[string]string `json:"filters,omitempty"`
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var body QueryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request := core.NewQueryRequest(body.Question)
	if body.TopK != 0 {
		request.TopK = body.TopK
	}
	if body.SimilarityThreshold != 0 {
		request.SimilarityThreshold = body.SimilarityThreshold
	}
	request.Filters = body.Filters

	response, exoErr := s.orchestrator.Query(r.Context(), request)
	if exoErr != nil {
		s.logger.Error("query failed", "code", string(exoErr.Code), "err", exoErr.Message)
		writeExoError(w, exoErr)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) listMemories(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	memories, err := s.repository.ListMemories(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if memories == nil {
		memories = []*core.Memory{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"memories": memories,
		"limit":    limit,
	})
}

func (s *Server) getMemory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	memory, err := s.repository.GetMemory(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "memory not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, memory)
}

func (s *Server) listCommitments(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	commitments, err := s.repository.ListCommitments(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if commitments == nil {
		commitments = []core.CommitmentRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"commitments": commitments,
		"status":      status,
	})
}

// statusForError maps the error taxonomy onto HTTP status codes: bad input
// is the caller's fault, provider outages are service unavailability,
// everything else is internal.
func statusForError(exoErr *core.Error) int {
	switch exoErr.Code {
	case core.ErrCodeValidation, core.ErrCodeParse:
		return http.StatusBadRequest
	case core.ErrCodeProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeExoError(w http.ResponseWriter, exoErr *core.Error) {
	writeJSON(w, statusForError(exoErr), exoErr)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
