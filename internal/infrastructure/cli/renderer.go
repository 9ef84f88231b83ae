package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/doeshing/notecalc/internal/domain"
)

// Renderer prints annotated lines and command results. Results are green,
// errors red and advisories yellow when colour is enabled.
type Renderer struct {
	out    io.Writer
	result *color.Color
	fail   *color.Color
	notice *color.Color
	dim    *color.Color
}

// NewRenderer builds a renderer for out. mode is one of auto, always or
// never; auto enables colour only on a terminal without NO_COLOR set.
func NewRenderer(out io.Writer, mode string) *Renderer {
	r := &Renderer{
		out:    out,
		result: color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
		notice: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
	}
	enabled := colorEnabled(out, mode)
	for _, c := range []*color.Color{r.result, r.fail, r.notice, r.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func colorEnabled(out io.Writer, mode string) bool {
	switch mode {
	case domain.ColorAlways:
		return true
	case domain.ColorNever:
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isTerminal(out)
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w interface{}) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Annotation echoes the line with its suffix highlighted.
func (r *Renderer) Annotation(ann domain.Annotation) {
	switch {
	case ann.Annotated():
		fmt.Fprintf(r.out, "%s%s\n", ann.Input, r.result.Sprint(ann.Suffix))
	case ann.Kind == domain.LineAssignment:
		fmt.Fprintf(r.out, "%s %s\n", ann.Input, r.dim.Sprint("# defined"))
	default:
		fmt.Fprintln(r.out, ann.Input)
	}
}

// Result prints a single value.
func (r *Renderer) Result(value string) {
	fmt.Fprintln(r.out, r.result.Sprint(value))
}

// Notice prints an advisory line.
func (r *Renderer) Notice(format string, args ...interface{}) {
	fmt.Fprintln(r.out, r.notice.Sprintf(format, args...))
}

// Error prints an error without aborting.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, r.fail.Sprintf("error: %v", err))
}

// Plain prints an uncoloured line.
func (r *Renderer) Plain(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// RefreshReport summarizes a rate refresh.
func (r *Renderer) RefreshReport(report domain.RefreshReport) {
	switch {
	case report.FiatErr != nil && report.FiatSkipped:
		r.Notice("Fiat rates skipped (%s): %v", report.Provider, report.FiatErr)
	case report.FiatErr != nil:
		fmt.Fprintln(r.out, r.fail.Sprintf("Fiat rates failed (%s): %v", report.Provider, report.FiatErr))
	default:
		fmt.Fprintf(r.out, "Fiat rates: %s from %s\n", r.result.Sprintf("%d updated", report.FiatUpdated), report.Provider)
	}

	if len(report.CryptoUpdated) > 0 {
		fmt.Fprintf(r.out, "Crypto rates: %s via %s\n", r.result.Sprintf("%d updated", len(report.CryptoUpdated)), report.CryptoSource)
	}
	if len(report.CryptoFailed) > 0 {
		r.Notice("Crypto rates unavailable: %s", strings.Join(report.CryptoFailed, ", "))
	}
	if !report.StartedAt.IsZero() && !report.FinishedAt.IsZero() {
		fmt.Fprintln(r.out, r.dim.Sprintf("took %s", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)))
	}
}
