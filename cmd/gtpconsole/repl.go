// =============================================================================
// repl.go - REPL Loop
// =============================================================================
//
// Reads lines from the line editor, handles the console's dot-commands,
// translates shorthands and sends everything else to the engine. Each
// response is printed in GTP notation.
//
// The loop ends on .quit, quit, end of input, or an error after which the
// console cannot be used any more (protocol desync, transport failure).
// A command that times out only prints an error; the engine may still be
// thinking and its late answer is discarded by the console.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Ekenstein/gogtp/gtp"
)

// prompt is shown before each line of input.
const prompt = "gtp> "

// REPL is an interactive session with one engine.
type REPL struct {
	console *gtp.Console
	editor  *LineEditor
	out     io.Writer
	errOut  io.Writer
	styles  styles
	timeout time.Duration
	target  string
	logger  *slog.Logger
}

// newREPL creates a REPL. The caller owns console and editor.
func newREPL(console *gtp.Console, editor *LineEditor, out, errOut io.Writer, cfg Config, logger *slog.Logger) *REPL {
	return &REPL{
		console: console,
		editor:  editor,
		out:     out,
		errOut:  errOut,
		styles:  newStyles(cfg.Plain),
		timeout: cfg.Timeout,
		target:  cfg.target(),
		logger:  logger,
	}
}

// Run reads and executes lines until the session ends. It returns nil
// when the user quits or input ends, and the console's error when the
// engine connection broke.
func (r *REPL) Run() error {
	for {
		line, err := r.editor.GetLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Ctrl-D leaves the cursor after the prompt.
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		line = normalizeInput(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if r.handleDotCommand(line) {
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "quit") {
			return nil
		}

		if err := r.execute(line); err != nil {
			return err
		}
	}
}

// handleDotCommand runs a console command. It returns true when the REPL
// should exit.
func (r *REPL) handleDotCommand(line string) bool {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case ".quit", ".exit":
		return true
	case ".help":
		printHelp(r.out, strings.Join(args, " "))
	case ".timeout":
		r.handleTimeout(args)
	case ".id":
		fmt.Fprintln(r.out, r.console.Session())
	case ".state":
		fmt.Fprintf(r.out, "%s (%s)\n", r.console.State(), r.target)
	default:
		r.printError(fmt.Sprintf("unknown command %s, type .help for a list", fields[0]))
	}
	return false
}

func (r *REPL) handleTimeout(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, describeTimeout(r.timeout))
		return
	}
	d, err := time.ParseDuration(args[0])
	if err != nil || d < 0 {
		r.printError(fmt.Sprintf("invalid duration %q", args[0]))
		return
	}
	r.timeout = d
	fmt.Fprintln(r.out, describeTimeout(d))
}

func describeTimeout(d time.Duration) string {
	if d == 0 {
		return "timeout: none"
	}
	return "timeout: " + d.String()
}

// execute sends one line to the engine and prints the answer. Only errors
// that end the session are returned.
func (r *REPL) execute(line string) error {
	commandLine := translateInput(line)
	if commandLine != line {
		r.logger.Debug("translated input", "input", line, "command", commandLine)
	}

	resp, err := r.console.SendRawWithTimeout(commandLine, r.timeout)
	switch {
	case err == nil:
		fmt.Fprintln(r.out, r.styles.formatResponse(resp))
		fmt.Fprintln(r.out)
		return nil
	case errors.Is(err, gtp.ErrEngineTimedOut):
		r.printError(fmt.Sprintf("no answer within %s", r.timeout))
		return nil
	case isFatal(err):
		r.printError(err.Error())
		return err
	default:
		// Commands rejected before anything was written.
		r.printError(err.Error())
		return nil
	}
}

// isFatal reports whether err leaves the console unusable.
func isFatal(err error) bool {
	return errors.Is(err, gtp.ErrProtocolDesync) ||
		errors.Is(err, gtp.ErrTransportFailure) ||
		errors.Is(err, gtp.ErrEngineClosed)
}

func (r *REPL) printError(message string) {
	fmt.Fprintln(r.errOut, r.styles.err.Render("Error: "+message))
}
