package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"

	"specweaver/internal/diagnostic"
	"specweaver/internal/pipeline"
)

// ColorMode selects when output is colorized.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode accepts auto, on or off.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorOn, ColorOff:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want auto|on|off)", s)
	}
}

// Options configures a Printer.
type Options struct {
	Color ColorMode
	// Resolved also lists resolved references.
	Resolved bool
	// Quiet prints only the summary line.
	Quiet bool
}

// Printer writes human-readable run output.
type Printer struct {
	w    io.Writer
	opts Options

	errorC   *color.Color
	warnC    *color.Color
	okC      *color.Color
	extC     *color.Color
	locC     *color.Color
	dimC     *color.Color
	headingC *color.Color
}

// New creates a Printer writing to w.
func New(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:        w,
		opts:     opts,
		errorC:   color.New(color.FgRed, color.Bold),
		warnC:    color.New(color.FgYellow, color.Bold),
		okC:      color.New(color.FgGreen),
		extC:     color.New(color.FgCyan),
		locC:     color.New(color.Bold),
		dimC:     color.New(color.Faint),
		headingC: color.New(color.Bold, color.Underline),
	}

	for _, c := range []*color.Color{p.errorC, p.warnC, p.okC, p.extC, p.locC, p.dimC, p.headingC} {
		switch opts.Color {
		case ColorOn:
			c.EnableColor()
		case ColorOff:
			c.DisableColor()
		}
	}

	return p
}

// PrintResult writes diagnostics, reference sections and the summary.
func (p *Printer) PrintResult(res *pipeline.Result) {
	if !p.opts.Quiet {
		p.PrintReport(res.Report)
	}

	p.PrintSummary(res)
}

// PrintReport writes every section of report that has rows.
func (p *Printer) PrintReport(report *diagnostic.Report) {
	for _, d := range report.Errors {
		p.printDiagnostic(d)
	}

	for _, d := range report.Warnings {
		p.printDiagnostic(d)
	}

	if len(report.Unresolved) > 0 {
		p.heading("Unresolved references")

		for _, row := range report.Unresolved {
			p.printRow(row, p.errorC)

			if len(row.Suggestions) > 0 {
				fmt.Fprintf(p.w, "      %s\n", p.dimC.Sprintf("did you mean %s?", strings.Join(row.Suggestions, ", ")))
			}
		}
	}

	if len(report.External) > 0 {
		p.heading("External dependencies")

		for _, row := range report.External {
			p.printRow(row, p.extC)
		}
	}

	if p.opts.Resolved && len(report.Resolved) > 0 {
		p.heading("Resolved references")

		for _, row := range report.Resolved {
			p.printRow(row, p.okC)
		}
	}
}

// PrintSummary writes a single line with the run totals.
func (p *Printer) PrintSummary(res *pipeline.Result) {
	bytes := 0
	for _, d := range res.Documents {
		bytes += d.Bytes
	}

	s := res.Report.Summary()

	status := p.okC.Sprint("ok")

	switch {
	case s.Errors > 0:
		status = p.errorC.Sprint("failed")
	case s.Unresolved > 0 || s.Warnings > 0:
		status = p.warnC.Sprint("incomplete")
	}

	fmt.Fprintf(p.w, "%s: checked %s (%s) in %s: %s, %s resolved, %s unresolved, %s external, %s, %s\n",
		status,
		english.Plural(len(res.Documents), "document", ""),
		humanize.Bytes(uint64(max(bytes, 0))),
		res.Elapsed.Round(time.Millisecond),
		english.Plural(len(res.Entities), "entity", "entities"),
		humanize.Comma(int64(s.Resolved)),
		humanize.Comma(int64(s.Unresolved)),
		humanize.Comma(int64(s.External)),
		english.Plural(s.Errors, "error", ""),
		english.Plural(s.Warnings, "warning", ""),
	)
}

func (p *Printer) heading(title string) {
	fmt.Fprintf(p.w, "\n%s\n", p.headingC.Sprint(title))
}

func (p *Printer) printDiagnostic(d diagnostic.Diagnostic) {
	sev := p.warnC
	if d.Severity == diagnostic.DiagnosticError {
		sev = p.errorC
	}

	fmt.Fprintf(p.w, "%s %s %s: %s\n",
		p.locC.Sprint(location(d.Path, d.Line)+":"),
		sev.Sprint(d.Severity.String()),
		d.Code,
		d.Message,
	)
}

func (p *Printer) printRow(row diagnostic.ReferenceRow, target *color.Color) {
	owner := row.Owner
	if row.Member != "" {
		owner += "." + row.Member
	}

	fmt.Fprintf(p.w, "  %s %s -> %s\n",
		p.locC.Sprint(location(row.File, row.Line)),
		owner,
		target.Sprint(row.Target),
	)
}

func location(path string, line int) string {
	if path == "" {
		path = "<unknown>"
	}

	if line <= 0 {
		return path
	}

	return fmt.Sprintf("%s:%d", path, line)
}
