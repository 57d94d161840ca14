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


package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateRawContent checks the input-shape constraints of a RawContent
// before the pipeline runs.
//
// Validation rules:
//   - Text must be non-empty after trimming
//
// NOT validated:
//   - SourceType (unknown values fall back to the document strategy)
//   - Timestamp, SourceFile, Metadata (informational only)
func ValidateRawContent(content *RawContent) *Error {
	if content == nil {
		return NewError(ErrCodeValidation, "raw content is nil")
	}
	if strings.TrimSpace(content.Text) == "" {
		return NewError(ErrCodeValidation, "raw content text is empty")
	}
	return nil
}

// Validate checks the constructor-level bounds of a QueryRequest.
//
// Validation rules:
//   - Question must be non-empty after trimming
//   - TopK must be in [1, 50]
//   - SimilarityThreshold must be in [0.0, 1.0]
func (q *QueryRequest) Validate() *Error {
	if q == nil {
		return NewError(ErrCodeValidation, "query request is nil")
	}
	if strings.TrimSpace(q.Question) == "" {
		return NewError(ErrCodeValidation, "question is empty")
	}
	if q.TopK < 1 || q.TopK > MaxTopK {
		return NewError(ErrCodeValidation,
			fmt.Sprintf("top_k must be in [1, %d]", MaxTopK)).
			WithDetail("top_k", fmt.Sprintf("%d", q.TopK))
	}
	if q.SimilarityThreshold < 0.0 || q.SimilarityThreshold > 1.0 {
		return NewError(ErrCodeValidation, "similarity_threshold must be in [0.0, 1.0]").
			WithDetail("similarity_threshold", fmt.Sprintf("%g", q.SimilarityThreshold))
	}
	return nil
}

// ValidateEnrichedContent checks the invariants the enrichment decoder is
// expected to have established.
//
// Validation rules:
//   - Summary must be non-empty and at most 500 characters
//   - Confidence must be in [0.0, 1.0]
//   - At most 10 topics
func ValidateEnrichedContent(content *EnrichedContent) *Error {
	if content == nil {
		return NewError(ErrCodeValidation, "enriched content is nil")
	}
	if content.Summary == "" {
		return NewError(ErrCodeValidation, "summary is empty")
	}
	if utf8.RuneCountInString(content.Summary) > MaxSummaryLength {
		return NewError(ErrCodeValidation,
			fmt.Sprintf("summary exceeds %d characters", MaxSummaryLength))
	}
	if content.Confidence < 0.0 || content.Confidence > 1.0 {
		return NewError(ErrCodeValidation, "confidence must be in [0.0, 1.0]")
	}
	if len(content.Topics) > MaxTopics {
		return NewError(ErrCodeValidation,
			fmt.Sprintf("at most %d topics allowed", MaxTopics))
	}
	return nil
}

const (
	// MaxSummaryLength bounds the enrichment summary.
	MaxSummaryLength = 500
	// MaxTopics bounds the enrichment topic list.
	MaxTopics = 10
)
