package gtp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"
)

// ProcessConfig describes an engine executable to start.
type ProcessConfig struct {
	// Path is the executable. A name without a path separator is looked up
	// in PATH.
	Path string

	// Args are passed to the executable.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is appended to the current environment.
	Env []string

	// Stderr receives the engine's standard error. When nil and Logger is
	// set, each stderr line is logged at debug level; otherwise it is
	// discarded.
	Stderr io.Writer

	// Logger is used for stderr lines and lifecycle messages.
	Logger *slog.Logger

	// GracePeriod is how long Close waits after closing stdin before it
	// signals the process, and again between SIGTERM and SIGKILL.
	// Zero uses GracePeriod.
	GracePeriod time.Duration
}

// ProcessTransport is a Transport over the standard input and output of an
// engine subprocess. The process runs in its own process group so that
// terminal signals reach the controller only; Close stops the whole group.
type ProcessTransport struct {
	cmd    *exec.Cmd
	stdin  *os.File
	stdout *os.File
	grace  time.Duration
	logger *slog.Logger

	waitDone chan struct{}
	waitErr  error

	closeOnce sync.Once
	closeErr  error
}

// StartProcess starts the engine described by cfg.
func StartProcess(cfg ProcessConfig) (*ProcessTransport, error) {
	if cfg.Path == "" {
		return nil, newMissingArgumentError("engine path is empty")
	}
	path, err := exec.LookPath(cfg.Path)
	if err != nil {
		return nil, NewTransportError("start", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = GracePeriod
	}

	// Plain pipes rather than cmd.StdinPipe/StdoutPipe: Wait closes those,
	// which would race with the console's reader draining the last answer.
	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, NewTransportError("start", err)
	}
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		return nil, NewTransportError("start", err)
	}

	cmd := exec.Command(path, cfg.Args...)
	cmd.Dir = cfg.Dir
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	cmd.Stdin = stdinR
	cmd.Stdout = stdoutW
	switch {
	case cfg.Stderr != nil:
		cmd.Stderr = cfg.Stderr
	case cfg.Logger != nil:
		cmd.Stderr = &logWriter{logger: logger}
	}
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		stdinR.Close()
		stdinW.Close()
		stdoutR.Close()
		stdoutW.Close()
		return nil, NewTransportError("start", fmt.Errorf("%s: %w", path, err))
	}

	// The child holds its own copies now.
	stdinR.Close()
	stdoutW.Close()

	p := &ProcessTransport{
		cmd:      cmd,
		stdin:    stdinW,
		stdout:   stdoutR,
		grace:    grace,
		logger:   logger.With("pid", cmd.Process.Pid),
		waitDone: make(chan struct{}),
	}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.waitDone)
	}()

	p.logger.Debug("engine started", "path", path, "args", cfg.Args)
	return p, nil
}

// Pid returns the process id of the engine.
func (p *ProcessTransport) Pid() int {
	return p.cmd.Process.Pid
}

// Exited returns a channel that is closed when the process has exited.
func (p *ProcessTransport) Exited() <-chan struct{} {
	return p.waitDone
}

// Read reads the engine's standard output.
func (p *ProcessTransport) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

// Write writes to the engine's standard input.
func (p *ProcessTransport) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close closes the engine's standard input and waits for it to exit. An
// engine that is still running after the grace period receives SIGTERM,
// then SIGKILL. Safe to call multiple times.
//
// Close returns the exit error of an engine that exited on its own with a
// non-zero status; an engine that had to be signalled is not an error.
func (p *ProcessTransport) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.stop()
	})
	return p.closeErr
}

func (p *ProcessTransport) stop() error {
	_ = p.stdin.Close()

	signalled := false
	if !p.waitFor(p.grace) {
		signalled = true
		p.logger.Debug("engine still running, terminating")
		if err := terminate(p.cmd.Process); err != nil {
			p.logger.Warn("terminate failed", "error", err)
		}
		if !p.waitFor(p.grace) {
			p.logger.Warn("engine ignored SIGTERM, killing")
			if err := kill(p.cmd.Process); err != nil {
				p.logger.Warn("kill failed", "error", err)
			}
			<-p.waitDone
		}
	}

	// Closing the read end unblocks a reader when a grandchild still holds
	// the write end open.
	_ = p.stdout.Close()

	if signalled || p.waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(p.waitErr, &exitErr) {
		p.logger.Debug("engine exited", "code", exitErr.ExitCode())
	}
	return p.waitErr
}

func (p *ProcessTransport) waitFor(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.waitDone:
		return true
	case <-timer.C:
		return false
	}
}

// logWriter logs each complete line written to it.
type logWriter struct {
	mu     sync.Mutex
	logger *slog.Logger
	buf    []byte
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, b...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimRight(w.buf[:i], "\r")
		if len(line) > 0 {
			w.logger.Debug("engine stderr", "line", string(line))
		}
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) > MaxLineLength {
		w.logger.Debug("engine stderr", "line", string(w.buf))
		w.buf = w.buf[:0]
	}
	return len(b), nil
}
