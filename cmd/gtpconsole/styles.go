// =============================================================================
// styles.go - Output Styling
// =============================================================================
//
// Responses are printed in GTP's own notation ("= D4", "? illegal move")
// and colored with lipgloss when writing to a terminal. --plain turns all
// styling off, which keeps output stable for Emacs comint and for scripts.
//
// =============================================================================

package main

import (
	"strings"

	"github.com/Ekenstein/gogtp/gtp"
	"github.com/charmbracelet/lipgloss"
)

// styles renders the different kinds of REPL output.
type styles struct {
	success lipgloss.Style
	failure lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	title   lipgloss.Style
}

// newStyles returns colored styles, or unstyled ones when plain is set.
func newStyles(plain bool) styles {
	if plain {
		s := lipgloss.NewStyle()
		return styles{success: s, failure: s, err: s, info: s, title: s}
	}
	return styles{
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		info:    lipgloss.NewStyle().Faint(true),
		title:   lipgloss.NewStyle().Bold(true),
	}
}

// formatResponse renders a response the way an engine would print it,
// with multi-line payloads starting on their own line.
func (s styles) formatResponse(resp gtp.Response) string {
	text := resp.Format()
	if strings.HasPrefix(resp.Data, gtp.LineSeparator) {
		// "= \n board..." reads better without the trailing blank.
		text = strings.Replace(text, " "+gtp.LineSeparator, gtp.LineSeparator, 1)
	}
	if resp.IsFailure() {
		return renderLines(s.failure, text)
	}
	return renderLines(s.success, text)
}

// renderLines styles each line on its own so that lipgloss does not pad
// board diagrams to a common width.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}
