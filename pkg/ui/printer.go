package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Printer writes user-facing progress and confirmation lines. Styling is only
// applied when the destination is a terminal.
type Printer struct {
	w      io.Writer
	styled bool

	stepStyle    lipgloss.Style
	successStyle lipgloss.Style
	warnStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:            w,
		styled:       isTerminal(w),
		stepStyle:    r.NewStyle().Foreground(lipgloss.Color("39")),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warnStyle:    r.NewStyle().Foreground(lipgloss.Color("214")),
		mutedStyle:   r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Step reports an action in progress.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(p.stepStyle, "-->"), fmt.Sprintf(format, args...))
}

// Success reports a completed action.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(p.successStyle, "✓"), fmt.Sprintf(format, args...))
}

// Warn reports a condition the user should act on.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(p.warnStyle, "!"), fmt.Sprintf(format, args...))
}

// Field prints an indented "label: value" line.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.render(p.mutedStyle, label+":"), value)
}

// Lines prints each line indented under the previous message.
func (p *Printer) Lines(lines []string) {
	for _, line := range lines {
		fmt.Fprintf(p.w, "    %s\n", line)
	}
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}
