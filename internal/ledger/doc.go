// Package ledger is the queue of references that could not be resolved
// while a single document was being built.
//
// The ledger is diagram-agnostic: entries carry a diagram-kind tag, the FQN
// of the entity holding the reference, and a Payload that only the
// diagram-specific validator understands. Drain hands every entry over
// exactly once and leaves the ledger empty.
package ledger
