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

// ErrorCode identifies which pipeline stage or concern an Error came from.
type ErrorCode string

const (
	// ErrCodeParse means raw content could not be turned into chunks.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeEnrich means the language model failed to produce usable enrichment.
	ErrCodeEnrich ErrorCode = "ENRICH_ERROR"
	// ErrCodeEmbed means embedding the content failed or produced no vector.
	ErrCodeEmbed ErrorCode = "EMBED_ERROR"
	// ErrCodeStore means the storage layer rejected the write.
	ErrCodeStore ErrorCode = "STORE_ERROR"
	// ErrCodeQuery means retrieval or answer generation failed.
	ErrCodeQuery ErrorCode = "QUERY_ERROR"
	// ErrCodeValidation means an input failed its constructor-level checks.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeProviderUnavailable means the AI provider could not be reached.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
)

// Error is the structured failure value every pipeline stage returns. It
// implements the error interface so it composes with the rest of the
// codebase, but callers are expected to inspect Code and Recoverable rather
// than match on the message.
//
// Recoverable is advisory: it marks failures where retrying the same input
// later could succeed (provider outages, transient storage trouble). Stages
// themselves never retry.
type Error struct {
	Code        ErrorCode         `json:"code"`
	Message     string            `json:"message"`
	Details     map[string]string `json:"details,omitempty"`
	Recoverable bool              `json:"recoverable"`
}

// NewError builds an Error with the given code and message. The error is
// non-recoverable until marked otherwise.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: map[string]string{}}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// WithDetail attaches a key/value pair to the error's detail map and returns
// the error for chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details[key] = value
	return e
}

// AsRecoverable marks the error as worth retrying later and returns it.
func (e *Error) AsRecoverable() *Error {
	e.Recoverable = true
	return e
}
