// Package ui prints the user-facing messages of postgen.
//
// Messages carry the same prefixes as the template's original hooks
// ("[SUCCESS]: ", "[WARNING]: ", "[INFO]: "). Colour comes from an embedded
// YAML style sheet and is dropped automatically when the output is not a
// terminal or NO_COLOR is set.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Message prefixes.
const (
	SuccessPrefix = "[SUCCESS]: "
	WarningPrefix = "[WARNING]: "
	InfoPrefix    = "[INFO]: "
)

// Printer writes styled messages.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	format Format
	styles map[string]lipgloss.Style
}

// NewPrinter creates a printer writing regular messages to out and errors
// to errOut. Nil writers default to the process's stdout and stderr.
func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	format = resolve(format, out)

	r := lipgloss.NewRenderer(out)
	if format == FormatText {
		r.SetColorProfile(termenv.Ascii)
	} else if r.ColorProfile() == termenv.Ascii {
		// Terminal output was requested explicitly for a writer that
		// doesn't look like one.
		r.SetColorProfile(termenv.ANSI256)
	}

	return &Printer{
		out:    out,
		errOut: errOut,
		format: format,
		styles: DefaultSheet().Build(r),
	}
}

// Format reports the concrete output format in use.
func (p *Printer) Format() Format {
	return p.format
}

// Out is the writer for regular messages.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Success prints a "[SUCCESS]: " message.
func (p *Printer) Success(format string, args ...interface{}) {
	p.line(p.out, StyleSuccess, SuccessPrefix+fmt.Sprintf(format, args...))
}

// Warning prints a "[WARNING]: " message.
func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(p.out, StyleWarning, WarningPrefix+fmt.Sprintf(format, args...))
}

// Info prints an "[INFO]: " message.
func (p *Printer) Info(format string, args ...interface{}) {
	p.line(p.out, StyleInfo, InfoPrefix+fmt.Sprintf(format, args...))
}

// Hint prints a follow-up suggestion, usually after a warning.
func (p *Printer) Hint(format string, args ...interface{}) {
	p.line(p.out, StyleHint, fmt.Sprintf(format, args...))
}

// Progress announces a step that is about to run.
func (p *Printer) Progress(format string, args ...interface{}) {
	p.line(p.out, StyleProgress, fmt.Sprintf(format, args...))
}

// Pass prints a green status line.
func (p *Printer) Pass(format string, args ...interface{}) {
	p.line(p.out, StylePass, fmt.Sprintf(format, args...))
}

// Fail prints a red status line on the regular output.
func (p *Printer) Fail(format string, args ...interface{}) {
	p.line(p.out, StyleFail, fmt.Sprintf(format, args...))
}

// Error prints to the error output.
func (p *Printer) Error(format string, args ...interface{}) {
	p.line(p.errOut, StyleError, fmt.Sprintf(format, args...))
}

// Plain prints an unstyled line.
func (p *Printer) Plain(format string, args ...interface{}) {
	_, _ = fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Render applies the named style to s. Unknown names render s unchanged.
func (p *Printer) Render(name, s string) string {
	style, ok := p.styles[name]
	if !ok || p.format == FormatText {
		return s
	}
	return style.Render(s)
}

func (p *Printer) line(w io.Writer, style, msg string) {
	_, _ = fmt.Fprintln(w, p.Render(style, msg))
}
