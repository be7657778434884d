// Package export writes the outcome of a run.
//
// Two sinks are provided:
//
//   - Encode/WriteFile serialize a Bundle (entities, report and document
//     summaries) as JSON, YAML or MessagePack.
//   - Store persists runs in a SQLite database. Entities are written in
//     inheritance order (parents before children) so that consumers reading
//     rows in insertion order always see a supertype before its subtypes.
package export
