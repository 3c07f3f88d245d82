// Package render turns analysis results into terminal and Markdown output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"errlens/internal/gitlog"
	"errlens/internal/model"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
	faint  = color.New(color.Faint)
)

// Terminal renders line-oriented, colorized reports. All output goes to the
// injected writer; color honors the global color.NoColor switch (set by the
// CLI for --no-color and NO_COLOR).
type Terminal struct {
	out io.Writer
}

// NewTerminal creates a terminal renderer writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// FileReports prints the per-file breakdown: declarations, raise sites, and
// intercept sites with their locations.
func (t *Terminal) FileReports(a *model.Analysis) {
	for i := range a.Files {
		fr := &a.Files[i]
		if len(fr.Defined) == 0 && len(fr.Raised) == 0 && len(fr.Intercepted) == 0 {
			continue
		}
		fmt.Fprintf(t.out, "%s\n", bold.Sprint(fr.Path))
		for _, d := range fr.Defined {
			fmt.Fprintf(t.out, "  defines     %s (extends %s) %s\n",
				d.Name, d.SupertypeName, faint.Sprintf("line %d", d.Location.Line))
		}
		for _, s := range fr.Raised {
			kind := "raises"
			if s.Kind == model.ReRaised {
				kind = "re-raises"
			}
			fmt.Fprintf(t.out, "  %-11s %s %s\n", kind, s.Name, faint.Sprintf("line %d", s.Location.Line))
		}
		for _, s := range fr.Intercepted {
			fmt.Fprintf(t.out, "  catches     %s %s\n", s.Name, faint.Sprintf("line %d", s.Location.Line))
		}
	}
}

// Flow prints a single-error flow report. history, when non-nil, annotates
// unguarded files with their recent commits.
func (t *Terminal) Flow(fl *model.ErrorFlow, history map[string][]gitlog.Commit) {
	fmt.Fprintf(t.out, "%s\n", bold.Sprint(fl.ErrorName))
	if fl.DefinedIn != "" {
		fmt.Fprintf(t.out, "  defined in      %s\n", fl.DefinedIn)
	} else {
		fmt.Fprintf(t.out, "  defined in      %s\n", faint.Sprint("(no declaration found)"))
	}
	t.fileSet("raised in", fl.RaisedIn, nil)
	t.fileSet("intercepted in", fl.InterceptedIn, green)
	t.fileSet("unguarded in", fl.UnguardedIn, red)

	for _, file := range fl.UnguardedIn {
		for _, c := range history[file] {
			fmt.Fprintf(t.out, "    %s %s %s\n",
				faint.Sprint(shortHash(c.Hash)), c.Subject, faint.Sprintf("(%s, %s)", c.Author, c.Date))
		}
	}
}

func (t *Terminal) fileSet(label string, files []string, c *color.Color) {
	if len(files) == 0 {
		fmt.Fprintf(t.out, "  %-15s %s\n", label, faint.Sprint("(none)"))
		return
	}
	joined := strings.Join(files, ", ")
	if c != nil {
		joined = c.Sprint(joined)
	}
	fmt.Fprintf(t.out, "  %-15s %s\n", label, joined)
}

// Coverage prints the project-wide summary table.
func (t *Terminal) Coverage(r *model.CoverageReport) {
	fmt.Fprintf(t.out, "%s\n", bold.Sprint("Error coverage"))
	fmt.Fprintf(t.out, "  error types: %d  intercepted: %d  unintercepted: %d  overall: %s\n",
		r.TotalErrorTypes, r.InterceptedErrorTypeCount, r.UninterceptedErrorTypeCount,
		percent(r.OverallPercentage))

	for _, pe := range r.PerError {
		line := fmt.Sprintf("  %-28s %s", pe.ErrorName, percent(pe.CoverageRatio))
		if len(pe.RiskyFiles) > 0 {
			line += "  " + red.Sprintf("risk: %s", strings.Join(pe.RiskyFiles, ", "))
		}
		fmt.Fprintln(t.out, line)
	}
}

// Failures prints skipped-file warnings; omissions are reported, never
// silently absorbed.
func (t *Terminal) Failures(failures []model.FileFailure) {
	for _, f := range failures {
		fmt.Fprintf(t.out, "%s %s: %v\n", yellow.Sprint("skipped"), f.Path, f.Err)
	}
}

func percent(p int) string {
	s := fmt.Sprintf("%d%%", p)
	switch {
	case p >= 80:
		return green.Sprint(s)
	case p >= 50:
		return yellow.Sprint(s)
	default:
		return red.Sprint(s)
	}
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
