// Package console renders a run for people: diagnostics, unresolved and
// external references, and a one-line summary.
package console
