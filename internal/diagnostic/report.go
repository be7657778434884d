package diagnostic

import (
	"fmt"
	"sort"
)

// ReferenceRow records the outcome of one deferred reference.
type ReferenceRow struct {
	// Owner is the FQN of the entity holding the reference.
	Owner string `json:"owner" yaml:"owner" msgpack:"owner"`
	// Member names the property, method or relationship the reference came from.
	Member string `json:"member,omitempty" yaml:"member,omitempty" msgpack:"member,omitempty"`
	// Target is the resolved FQN, or the unresolved type name.
	Target string `json:"target" yaml:"target" msgpack:"target"`
	// Expression is the full type expression the target was found in.
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty" msgpack:"expression,omitempty"`
	File       string `json:"file" yaml:"file" msgpack:"file"`
	Line       int    `json:"line" yaml:"line" msgpack:"line"`
	// Suggestions are close registry names for unresolved rows.
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty" msgpack:"suggestions,omitempty"`
}

// String returns "file:line owner.member -> target".
func (r ReferenceRow) String() string {
	owner := r.Owner
	if r.Member != "" {
		owner += "." + r.Member
	}

	return fmt.Sprintf("%s:%d %s -> %s", r.File, r.Line, owner, r.Target)
}

// Report is the final result of integration validation.
type Report struct {
	RunID      string         `json:"run_id,omitempty" yaml:"run_id,omitempty" msgpack:"run_id,omitempty"`
	Resolved   []ReferenceRow `json:"resolved" yaml:"resolved" msgpack:"resolved"`
	Unresolved []ReferenceRow `json:"unresolved" yaml:"unresolved" msgpack:"unresolved"`
	External   []ReferenceRow `json:"external" yaml:"external" msgpack:"external"`
	Errors     []Diagnostic   `json:"errors" yaml:"errors" msgpack:"errors"`
	Warnings   []Diagnostic   `json:"warnings,omitempty" yaml:"warnings,omitempty" msgpack:"warnings,omitempty"`
}

// NewReport creates an empty report with non-nil collections.
func NewReport() *Report {
	return &Report{
		Resolved:   []ReferenceRow{},
		Unresolved: []ReferenceRow{},
		External:   []ReferenceRow{},
		Errors:     []Diagnostic{},
	}
}

// AddDiagnostics folds phase diagnostics into the report.
// Infos are dropped; the report only carries actionable findings.
func (r *Report) AddDiagnostics(d Diagnostics) {
	r.Errors = append(r.Errors, d.Errors...)
	r.Warnings = append(r.Warnings, d.Warnings...)
}

// HasErrors returns true if any structural error was recorded.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// IsClean returns true if there are no errors and no unresolved references.
func (r *Report) IsClean() bool {
	return len(r.Errors) == 0 && len(r.Unresolved) == 0
}

// SortDiagnostics orders errors and warnings by path and line.
// Reference rows keep ledger order, which is already deterministic.
func (r *Report) SortDiagnostics() {
	sortDiagnostics(r.Errors)
	sortDiagnostics(r.Warnings)
}

// Summary holds row counts for display.
type Summary struct {
	Resolved   int
	Unresolved int
	External   int
	Errors     int
	Warnings   int
}

// Summary returns the row counts of the report.
func (r *Report) Summary() Summary {
	return Summary{
		Resolved:   len(r.Resolved),
		Unresolved: len(r.Unresolved),
		External:   len(r.External),
		Errors:     len(r.Errors),
		Warnings:   len(r.Warnings),
	}
}

// UnresolvedTargets returns the distinct unresolved target names, sorted.
func (r *Report) UnresolvedTargets() []string {
	seen := map[string]struct{}{}

	var out []string

	for _, row := range r.Unresolved {
		if _, ok := seen[row.Target]; ok {
			continue
		}

		seen[row.Target] = struct{}{}
		out = append(out, row.Target)
	}

	sort.Strings(out)

	return out
}
