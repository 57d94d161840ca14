// Package api exposes the pipeline over HTTP as a small JSON API.
//
// Routes:
//   - POST /ingest: capture raw content through the full pipeline
//   - POST /query: ask a question over stored memories
//   - GET /memories, GET /memories/{id}: recency listing and detail
//   - GET /commitments: flattened commitment records, filterable by status
//   - GET /health: liveness probe
//
// Pipeline failures surface as the structured error value serialized as-is,
// with the HTTP status derived from the error code: validation and parse
// errors are 400, provider outages are 503, everything else is 500.
package api
