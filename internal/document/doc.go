// Package document extracts fenced diagram blocks and pipe tables from
// Markdown documents and classifies blocks by diagram kind.
//
// Scanning walks the tree-sitter Markdown block tree exactly once and is a
// pure function of its input, so documents can be scanned in parallel.
//
// # Line numbers
//
// Block.StartLine is the 1-based line of the opening fence. Content line n
// (1-based, counted inside the block) lives at absolute line StartLine+n,
// which is how extractors rebase block-local diagnostics.
//
// # Routing
//
// Route partitions blocks tagged with a diagram language by the first
// keyword of their content:
//
//	classDiagram            -> KindClass
//	sequenceDiagram         -> KindSequence
//	flowchart | graph       -> KindFlowchart
//	erDiagram               -> KindER
//	stateDiagram[-v2]       -> KindState
//	anything else           -> KindUnknown
//
// Leading blank lines, %% comments and a --- front-matter section are
// skipped before the keyword is read.
package document
