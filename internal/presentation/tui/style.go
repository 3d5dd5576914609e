package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Styler colors status lines for the output it writes to.
// Colors are dropped automatically when the output is not a terminal.
type Styler struct {
	out *termenv.Output
}

// NewStyler creates a Styler bound to w.
func NewStyler(w io.Writer) *Styler {
	return &Styler{out: termenv.NewOutput(w)}
}

// Success renders msg in green.
func (s *Styler) Success(msg string) string {
	return s.out.String(msg).Foreground(s.out.Color("#22c55e")).String()
}

// Failure renders msg in bold red.
func (s *Styler) Failure(msg string) string {
	return s.out.String(msg).Foreground(s.out.Color("#ef4444")).Bold().String()
}

// Muted renders msg faint, for secondary details.
func (s *Styler) Muted(msg string) string {
	return s.out.String(msg).Faint().String()
}
