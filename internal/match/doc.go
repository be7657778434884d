// Package match ranks registered names by similarity to a name that could
// not be resolved, for "did you mean" hints.
//
// Key functions:
//   - NormalizeIdent: folds case and separators so OrderLine, order_line and orderLine compare equal
//   - NormalizeTypeName: additionally drops decoration tokens such as Impl, DTO or Entity
//   - Levenshtein: edit distance between two strings
//   - Rank / Suggest: score candidate FQNs against an unresolved name
package match
