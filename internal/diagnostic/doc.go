// Package diagnostic provides structured errors, warnings and the final
// validation report produced by a specweaver run.
//
// Key capabilities:
//   - Machine-readable codes (DUPLICATE_FQN, INVALID_FQN, PARSE_ERROR, ...)
//   - Per-file, per-line diagnostics that never abort a run
//   - Resolved / unresolved / external reference rows with "did you mean" suggestions
//   - Deterministic ordering for reproducible output
package diagnostic
