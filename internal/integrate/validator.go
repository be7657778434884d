package integrate

import (
	"fmt"
	"slices"
	"strings"

	"specweaver/internal/classdiagram"
	"specweaver/internal/common"
	"specweaver/internal/diagnostic"
	"specweaver/internal/ledger"
	"specweaver/internal/match"
	"specweaver/internal/registry"
)

// Options configures external classification and suggestions.
type Options struct {
	// ExternalPrefixes classify names such as "java.util.List" as external.
	ExternalPrefixes []string
	// ExternalTypes is an allow-list of external type names, matched on the
	// full name or its last segment.
	ExternalTypes []string
	// SuggestionLimit caps suggestions per unresolved row; 0 means match.DefaultLimit.
	SuggestionLimit int
}

// Validator settles deferred references against a registry.
type Validator struct {
	reg  *registry.Registry
	opts Options
}

// New creates a Validator reading from reg.
func New(reg *registry.Registry, opts Options) *Validator {
	if opts.SuggestionLimit == 0 {
		opts.SuggestionLimit = match.DefaultLimit
	}

	return &Validator{reg: reg, opts: opts}
}

// reference is the payload-independent view of a ledger entry.
type reference struct {
	member     string
	target     string
	expression string
	file       string
	line       int
}

// Validate drains l and classifies every entry in ledger order.
// An empty ledger yields an empty report.
func (v *Validator) Validate(l *ledger.Ledger) *diagnostic.Report {
	report := diagnostic.NewReport()

	for _, entry := range l.Drain() {
		ref, ok := referenceOf(entry)
		if !ok {
			report.Errors = append(report.Errors, diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodeBuildError,
				Message:  fmt.Sprintf("unsupported deferred payload %T for %s diagram", entry.Payload, entry.Diagram),
				FQN:      entry.Owner,
			})

			continue
		}

		row := diagnostic.ReferenceRow{
			Owner:      entry.Owner,
			Member:     ref.member,
			Target:     ref.target,
			Expression: ref.expression,
			File:       ref.file,
			Line:       ref.line,
		}

		fqn, candidates := v.find(entry.Owner, ref.target)

		switch {
		case fqn != "":
			row.Target = fqn
			report.Resolved = append(report.Resolved, row)

		case len(candidates) == 0 && v.isExternal(ref.target):
			if owner, ok := v.reg.Lookup(entry.Owner); ok {
				owner.AddExternalDependency(ref.target)
			}

			report.External = append(report.External, row)

		default:
			if len(candidates) > 1 {
				row.Suggestions = candidates
			} else {
				row.Suggestions = match.Suggest(ref.target, v.reg.Names(), v.opts.SuggestionLimit)
			}

			report.Unresolved = append(report.Unresolved, row)
		}
	}

	return report
}

func referenceOf(entry ledger.Entry) (reference, bool) {
	switch p := entry.Payload.(type) {
	case classdiagram.TypeReference:
		return reference{member: p.Member, target: p.Target, expression: p.Expression, file: p.File, line: p.Line}, true
	case classdiagram.RelationReference:
		return reference{member: string(p.Kind), target: p.Target, file: p.File, line: p.Line}, true
	default:
		return reference{}, false
	}
}

// find looks target up in the owner's package, then as an FQN, then by
// simple name. An ambiguous simple name returns no FQN and every candidate.
func (v *Validator) find(owner, target string) (string, []string) {
	if pkg := common.PackageOf(owner); pkg != "" {
		if fqn := common.JoinFQN(pkg, target); v.reg.Exists(fqn) {
			return fqn, nil
		}
	}

	if v.reg.Exists(target) {
		return target, nil
	}

	if strings.Contains(target, ".") {
		return "", nil
	}

	candidates := v.reg.FindByName(target)
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	return "", candidates
}

func (v *Validator) isExternal(target string) bool {
	for _, prefix := range v.opts.ExternalPrefixes {
		if prefix != "" && strings.HasPrefix(target, prefix) {
			return true
		}
	}

	return slices.Contains(v.opts.ExternalTypes, target) ||
		slices.Contains(v.opts.ExternalTypes, common.SimpleName(target))
}
