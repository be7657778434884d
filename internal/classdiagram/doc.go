// Package classdiagram extracts the structural content of one Mermaid class
// diagram block: classes with their members, relationships, namespaces and
// notes.
//
// Extraction is purely syntactic and knows nothing about other documents.
// Type strings are kept as written (Mermaid "~T~" generics are rewritten to
// "<T>") and are resolved later by the builder.
//
// Supported statements:
//
//	class Name                      bare declaration
//	class Name<T, U extends B> {    class body, one member per line, closed by "}"
//	class Name~T~ {}                Mermaid generic syntax and empty body
//	Name : +member                  member shorthand
//	<<interface>> Name              stereotype, also allowed as a line inside a body
//	namespace Shop { ... }          namespace grouping class declarations
//	note for Name "text"            note attached to a class
//	note "text"                     free note
//	A "1" *-- "many" B : label      relationship with optional cardinalities and label
//
// Styling and interaction statements (direction, style, classDef, cssClass,
// click, link, callback) and "%%" comments are ignored.
//
// Any structural error (unclosed body, stray "}", malformed class header,
// unbalanced generic delimiters) discards the whole block: the Result is
// empty except for one "line N: ..." message where N is the document line.
//
// LocateClass is a separate, approximate helper that recovers the line range
// of a class from raw text by brace counting.
package classdiagram
