// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// The REPL reads input through a line editor that picks its mode from the
// input it is given:
//
//   - Interactive mode: stdin is a terminal. ergochat/readline provides
//     Emacs keybindings, persistent history and Ctrl-R history search.
//   - Non-interactive mode: piped input, a script, or Emacs comint. A
//     bufio.Scanner reads lines and the prompt is written by hand.
//
// History is stored at ~/.gtpconsole_history with a 500-entry limit.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the history file in the user's home directory.
	historyFileName = ".gtpconsole_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// GO CONCEPT: Interfaces and Structural Typing
// ---------------------------------------------
// readline.Instance and bufio.Scanner read input through different APIs.
// LineEditor hides both behind GetLine/Close, so the REPL never needs to
// know which one is active. No "implements" declaration is involved; any
// type with the right methods would do.

// LineEditor wraps line editing with dual-mode operation.
type LineEditor struct {
	// interactive is true when input is a terminal outside Emacs.
	interactive bool

	// rl is set in interactive mode and never cleared, so Close can run
	// while another goroutine is inside Readline.
	rl *readline.Instance

	// scanner and out are set in non-interactive mode.
	scanner *bufio.Scanner
	out     io.Writer

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewLineEditor creates a line editor reading from in. Readline is used
// only when in is a terminal and INSIDE_EMACS is unset; Emacs provides its
// own line editing. An empty historyPath disables persistent history.
func NewLineEditor(in io.Reader, out io.Writer, historyPath string) *LineEditor {
	if !isTerminal(in) || os.Getenv("INSIDE_EMACS") != "" {
		return newScannerEditor(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  historyPath,
		HistoryLimit: historySize,

		// Lines are saved by GetLine so that blank lines stay out of
		// the history.
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(in, out)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

func newScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GetLine reads a line of input after showing prompt. It returns io.EOF
// when the user presses Ctrl-D or Ctrl-C, when piped input runs out, or
// after Close.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.closed.Load() {
		return "", io.EOF
	}
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || le.closed.Load() {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	// Emacs comint finds the start of user input by matching the prompt,
	// so it is printed even without a terminal.
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves history and releases the terminal. A GetLine blocked in
// Readline returns io.EOF. It is safe to call more than once and from any
// goroutine.
func (le *LineEditor) Close() {
	le.closed.Store(true)
	le.closeOnce.Do(func() {
		if le.rl != nil {
			le.rl.Close()
		}
	})
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
