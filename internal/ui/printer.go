// Package ui writes user-facing messages. Diagnostics go to slog; what the
// user is meant to read goes through a Printer.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes information to one stream and warnings/errors to another,
// styling them for the terminal it writes to.
type Printer struct {
	out io.Writer
	err io.Writer

	bold  lipgloss.Style
	green lipgloss.Style
	red   lipgloss.Style
	warn  lipgloss.Style
	cyan  lipgloss.Style
}

// NewPrinter creates a Printer. Color is only emitted when the writer is a
// terminal that supports it.
func NewPrinter(out, errOut io.Writer) *Printer {
	renderer := lipgloss.NewRenderer(out)
	return &Printer{
		out:   out,
		err:   errOut,
		bold:  renderer.NewStyle().Bold(true),
		green: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		red:   renderer.NewStyle().Foreground(lipgloss.Color("1")),
		warn:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
		cyan:  renderer.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Stdio returns a Printer bound to stdout and stderr.
func Stdio() *Printer {
	return NewPrinter(os.Stdout, os.Stderr)
}

// WriteInformation writes a line to the output stream.
func (p *Printer) WriteInformation(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// WriteWarning writes a highlighted line to the error stream.
func (p *Printer) WriteWarning(format string, args ...any) {
	fmt.Fprintln(p.err, p.warn.Render(fmt.Sprintf(format, args...)))
}

// WriteError writes a line to the error stream.
func (p *Printer) WriteError(format string, args ...any) {
	fmt.Fprintf(p.err, format+"\n", args...)
}

// EmptyLine writes a blank line to the output stream.
func (p *Printer) EmptyLine() {
	fmt.Fprintln(p.out)
}

// Bold renders s in bold.
func (p *Printer) Bold(s string) string { return p.bold.Render(s) }

// Green renders s in green.
func (p *Printer) Green(s string) string { return p.green.Render(s) }

// Red renders s in red.
func (p *Printer) Red(s string) string { return p.red.Render(s) }

// Cyan renders s in cyan.
func (p *Printer) Cyan(s string) string { return p.cyan.Render(s) }
