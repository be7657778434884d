// Package pipeline runs the whole process over a set of documents.
//
// A run has four phases:
//
//  1. Scan and extract: every document is scanned, its blocks routed and
//     its class diagrams extracted. Documents are independent, so this
//     phase runs on a bounded worker group; each worker writes only its own
//     result slot.
//  2. Build: entity specs are built and registered sequentially, in path
//     order, so registration order never depends on scheduling.
//  3. Freeze: the registry stops accepting registrations.
//  4. Integrate: deferred references are validated against the frozen
//     registry and the final report is assembled.
//
// Every run gets a fresh registry and ledger; nothing is shared between runs.
package pipeline
