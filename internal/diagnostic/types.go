package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"specweaver/internal/common"
)

// Diagnostics holds all diagnostic information from a run phase.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity `json:"severity" yaml:"severity" msgpack:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code" yaml:"code" msgpack:"code"`
	// Message is the human-readable description.
	Message string `json:"message" yaml:"message" msgpack:"message"`
	// FQN identifies the affected entity (if any).
	FQN string `json:"fqn,omitempty" yaml:"fqn,omitempty" msgpack:"fqn,omitempty"`
	// Path identifies the affected document (if any).
	Path string `json:"path,omitempty" yaml:"path,omitempty" msgpack:"path,omitempty"`
	// Line is the 1-based line in Path (0 when unknown).
	Line int `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// MarshalText encodes the severity by name.
func (s DiagnosticSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *DiagnosticSeverity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = DiagnosticInfo
	case "warning":
		*s = DiagnosticWarning
	case "error":
		*s = DiagnosticError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}

	return nil
}

// Location identifies where a diagnostic applies.
type Location struct {
	FQN  string
	Path string
	Line int
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message string, loc Location) {
	d.Errors = append(d.Errors, newDiagnostic(DiagnosticError, code, message, loc))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string, loc Location) {
	d.Warnings = append(d.Warnings, newDiagnostic(DiagnosticWarning, code, message, loc))
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message string, loc Location) {
	d.Infos = append(d.Infos, newDiagnostic(DiagnosticInfo, code, message, loc))
}

func newDiagnostic(sev DiagnosticSeverity, code, message string, loc Location) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  message,
		FQN:      loc.FQN,
		Path:     loc.Path,
		Line:     loc.Line,
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// Sort orders every severity bucket by path, line, code and FQN.
// Sorting is stable, so diagnostics on the same position keep their insertion order.
func (d *Diagnostics) Sort() {
	sortDiagnostics(d.Errors)
	sortDiagnostics(d.Warnings)
	sortDiagnostics(d.Infos)
}

func sortDiagnostics(items []Diagnostic) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		if a.Code != b.Code {
			return a.Code < b.Code
		}

		return a.FQN < b.FQN
	})
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string

	if d.Path != "" {
		if d.Line > 0 {
			prefix = append(prefix, fmt.Sprintf("%s:%d", d.Path, d.Line))
		} else {
			prefix = append(prefix, d.Path)
		}
	}

	if d.FQN != "" {
		prefix = append(prefix, "["+d.FQN+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
