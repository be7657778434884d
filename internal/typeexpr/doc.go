// Package typeexpr parses the type expressions written in class diagrams.
//
// The grammar is deliberately small:
//
//	union   = postfix { ("|" | "or") postfix }
//	postfix = prefix { "[" [digits] "]" | "?" }
//	prefix  = "[" "]" prefix | primary
//	primary = ident [ "<" union { "," union } ">" ] | "(" union ")"
//
// Identifiers may contain letters, digits, "_", "." and "$", so qualified
// names like java.util.List parse as a single identifier. Pointer and
// reference sigils ("*", "&") in front of a type are ignored.
//
// Parse reports malformed input (unbalanced delimiters, dangling
// separators). ParseLenient never fails: it falls back to a single Named
// node holding the whole trimmed input.
package typeexpr
