// Package integrate runs the second resolution pass: it drains the ledger
// once every document has been built and settles each deferred reference
// against the complete registry.
//
// Every entry ends up in exactly one report collection:
//   - Resolved when the target is now registered (owner package first, then
//     the name as an FQN, then a unique simple-name match);
//   - External when it matches a configured prefix or allow-listed type, in
//     which case it is also added to the owner's external dependencies;
//   - Unresolved otherwise, with "did you mean" suggestions.
//
// Entries with a payload the validator does not understand are reported as
// BUILD_ERROR rather than dropped.
package integrate
