// Package pipeline composes the capture and retrieval flows of exocortex.
//
// The Orchestrator type holds the storage, language-model and embedding
// handles and exposes two entry points:
//   - Ingest: parse, enrich, embed, store as a strict sequential chain that
//     short-circuits on the first stage error
//   - Query: embed the question, search stored memories by similarity, and
//     generate a grounded answer with source attributions
//
// Each stage is also exposed individually for debugging and partial use.
// Stage failures are returned as *core.Error values carrying the stage code,
// diagnostic details and a recoverability hint; stages never retry.
package pipeline
