package core

import (
	"strings"
	"time"
)

// SourceType identifies where a piece of raw content came from. It selects
// the parsing strategy and is persisted on the stored Memory for filtering.
type SourceType string

const (
	// SourceTypeAudio is an audio transcription (JSON segments or plain text).
	SourceTypeAudio SourceType = "audio_transcript"
	// SourceTypeTelegram is a Telegram chat export.
	SourceTypeTelegram SourceType = "telegram"
	// SourceTypeSlack is a Slack conversation export.
	SourceTypeSlack SourceType = "slack"
	// SourceTypeMarkdown is a markdown document.
	SourceTypeMarkdown SourceType = "markdown"
	// SourceTypeCode is a source-code file with comment headers.
	SourceTypeCode SourceType = "code"
)

// ParseSourceType maps a string onto a known SourceType. The boolean reports
// whether the value was recognized; callers decide the fallback.
func ParseSourceType(s string) (SourceType, bool) {
	switch SourceType(strings.ToLower(strings.TrimSpace(s))) {
	case SourceTypeAudio:
		return SourceTypeAudio, true
	case SourceTypeTelegram:
		return SourceTypeTelegram, true
	case SourceTypeSlack:
		return SourceTypeSlack, true
	case SourceTypeMarkdown:
		return SourceTypeMarkdown, true
	case SourceTypeCode:
		return SourceTypeCode, true
	}
	return SourceTypeMarkdown, false
}

// RawContent is the pipeline input: unprocessed text plus capture context.
type RawContent struct {
	Text       string            `json:"text"`
	SourceType SourceType        `json:"source_type"`
	SourceFile string            `json:"source_file,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewRawContent builds a RawContent stamped with the current time.
func NewRawContent(text string, sourceType SourceType) *RawContent {
	return &RawContent{
		Text:       text,
		SourceType: sourceType,
		Timestamp:  time.Now().UTC(),
	}
}

// Header is a single document heading located during parsing.
type Header struct {
	Level    int    `json:"level"`
	Title    string `json:"title"`
	Position int    `json:"position"` // chunk index the header opens
}

// HeaderNode is a node in the nested heading tree of a document.
type HeaderNode struct {
	Title    string        `json:"title"`
	Level    int           `json:"level"`
	Children []*HeaderNode `json:"children,omitempty"`
}

// DateRange is the first/last message timestamps of a chat export, kept as
// the export's own ISO-8601 strings.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Structure carries the strategy-specific shape extracted during parsing.
// Only the fields relevant to the source's strategy are populated.
type Structure struct {
	// Document strategy.
	Headers    []Header      `json:"headers,omitempty"`
	HeaderTree []*HeaderNode `json:"header_tree,omitempty"`

	// Chat strategy.
	ChatName     string     `json:"chat_name,omitempty"`
	ChatType     string     `json:"chat_type,omitempty"`
	Participants []string   `json:"participants,omitempty"`
	MessageCount int        `json:"message_count,omitempty"`
	DateRange    *DateRange `json:"date_range,omitempty"`

	// Transcript strategy.
	Speakers     []string `json:"speakers,omitempty"`
	SegmentCount int      `json:"segment_count,omitempty"`
	StartTime    *float64 `json:"start_time,omitempty"`
	EndTime      *float64 `json:"end_time,omitempty"`
	Format       string   `json:"format,omitempty"` // "json" or "plain"
}

// ParsedContent is the output of the parse stage: ordered chunks, the
// extracted structure, and the content fingerprint of the raw text.
type ParsedContent struct {
	Raw         *RawContent `json:"raw"`
	Chunks      []string    `json:"chunks"`
	Structure   Structure   `json:"structure"`
	Fingerprint string      `json:"fingerprint"`
}

// Intent classifies what a piece of captured content is for.
type Intent string

const (
	IntentDecision     Intent = "decision"
	IntentCommitment   Intent = "commitment"
	IntentQuestion     Intent = "question"
	IntentIdea         Intent = "idea"
	IntentTask         Intent = "task"
	IntentUnclassified Intent = "unclassified"
)

// ParseIntent maps a string onto the closed intent vocabulary. Unknown values
// report false so the enrichment decoder can drop them.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentDecision:
		return IntentDecision, true
	case IntentCommitment:
		return IntentCommitment, true
	case IntentQuestion:
		return IntentQuestion, true
	case IntentIdea:
		return IntentIdea, true
	case IntentTask:
		return IntentTask, true
	case IntentUnclassified:
		return IntentUnclassified, true
	}
	return IntentUnclassified, false
}

// Entity is a named thing (person, project, tool, ...) found in content.
type Entity struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Normalized string  `json:"normalized,omitempty"`
}

// CommitmentStatus is the lifecycle state of a commitment.
type CommitmentStatus string

const (
	CommitmentOpen     CommitmentStatus = "open"
	CommitmentComplete CommitmentStatus = "complete"
	CommitmentOverdue  CommitmentStatus = "overdue"
)

// ParseCommitmentStatus maps a string onto a CommitmentStatus, defaulting to
// open for unknown values.
func ParseCommitmentStatus(s string) CommitmentStatus {
	switch CommitmentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case CommitmentComplete:
		return CommitmentComplete
	case CommitmentOverdue:
		return CommitmentOverdue
	}
	return CommitmentOpen
}

// Commitment is a promise extracted from content: who owes what to whom.
type Commitment struct {
	FromParty   string           `json:"from_party"`
	ToParty     string           `json:"to_party"`
	Description string           `json:"description"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Status      CommitmentStatus `json:"status"`
}

// EnrichedContent is the language model's structured reading of parsed
// content.
type EnrichedContent struct {
	Intents     []Intent     `json:"intents"`
	Confidence  float64      `json:"confidence"`
	Entities    []Entity     `json:"entities"`
	Commitments []Commitment `json:"commitments"`
	Summary     string       `json:"summary"`
	Topics      []string     `json:"topics"`
}

// EntityRecord is the persisted form of an Entity, grouped by type on the
// Memory so the type string is not repeated per entity.
type EntityRecord struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Normalized string  `json:"normalized,omitempty"`
}

// CommitmentRecord is the persisted form of a Commitment. DueDate is an
// ISO-8601 date string, empty when the commitment has no deadline.
type CommitmentRecord struct {
	FromParty   string `json:"from_party"`
	ToParty     string `json:"to_party"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status"`
}

// Memory is the storable unit of captured knowledge: the original content,
// its enrichment, and the embedding vector used for semantic retrieval.
type Memory struct {
	Id          string                    `json:"id"`
	Content     string                    `json:"content"`
	Summary     string                    `json:"summary"`
	Intents     []string                  `json:"intents"`
	Entities    map[string][]EntityRecord `json:"entities,omitempty"`
	Commitments []CommitmentRecord        `json:"commitments,omitempty"`
	Embedding   []float32                 `json:"-"`
	SourceType  SourceType                `json:"source_type"`
	SourceFile  string                    `json:"source_file,omitempty"`
	Fingerprint string                    `json:"fingerprint"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at,omitempty"`
}

// MemoryMatch is a memory returned from semantic search with its cosine
// similarity to the query vector.
type MemoryMatch struct {
	Memory     *Memory `json:"memory"`
	Similarity float32 `json:"similarity"`
}
