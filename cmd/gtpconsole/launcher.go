// =============================================================================
// launcher.go - Engine Discovery and Connection
// =============================================================================
//
// Opens the console over whichever transport the configuration names. For
// an engine given by bare name the executable is searched in this order:
//   1. Same directory as the gtpconsole binary
//   2. PATH environment variable
//   3. Common locations: /usr/local/bin, /opt/homebrew/bin, /usr/games,
//      ~/.local/bin
//
// Once connected, a short handshake (protocol_version, name, version)
// checks that the other end actually speaks GTP before the REPL starts.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ekenstein/gogtp/gtp"
)

// handshakeTimeout bounds each command of the startup handshake. Engines
// that load large networks can be slow to answer the first command.
const handshakeTimeout = 30 * time.Second

// engineInfo is what the engine reports about itself during the handshake.
type engineInfo struct {
	ProtocolVersion string
	Name            string
	Version         string
}

// String returns "name version" or a placeholder when the engine did not
// say.
func (e engineInfo) String() string {
	name := e.Name
	if name == "" {
		name = "unknown engine"
	}
	if e.Version != "" {
		return name + " " + e.Version
	}
	return name
}

// openConsole connects to the engine described by cfg. Engine stderr goes
// to stderr unless the logger is capturing it at debug level.
func openConsole(ctx context.Context, cfg Config, logger *slog.Logger, stderr io.Writer) (*gtp.Console, error) {
	opts := cfg.consoleOptions(logger)

	switch {
	case cfg.Engine != "":
		path, err := findEngineExecutable(cfg.Engine)
		if err != nil {
			return nil, fmt.Errorf("could not find engine %s: %w", cfg.Engine, err)
		}
		pc := gtp.ProcessConfig{
			Path:   path,
			Args:   cfg.Args,
			Dir:    cfg.Dir,
			Logger: logger,
		}
		if !cfg.Verbose {
			pc.Stderr = stderr
		}
		return gtp.OpenProcess(pc, opts...)
	case cfg.Connect != "":
		return gtp.OpenSocket(ctx, "tcp", cfg.Connect, opts...)
	case cfg.Unix != "":
		return gtp.OpenSocket(ctx, "unix", cfg.Unix, opts...)
	case cfg.WebSocket != "":
		return gtp.OpenWebSocket(ctx, cfg.WebSocket, opts...)
	default:
		return nil, errors.New("no engine configured")
	}
}

// handshake asks the engine for its protocol version, name and version.
// Only a transport or protocol error fails the handshake; engines are free
// to reject name and version.
func handshake(console *gtp.Console, logger *slog.Logger) (engineInfo, error) {
	var info engineInfo

	ask := func(cmd gtp.Command) (string, error) {
		resp, err := console.SendWithTimeout(cmd, handshakeTimeout)
		if err != nil {
			return "", err
		}
		if resp.IsFailure() {
			logger.Debug("handshake command rejected", "command", cmd.Name, "message", resp.Data)
			return "", nil
		}
		return strings.TrimSpace(resp.Data), nil
	}

	var err error
	if info.ProtocolVersion, err = ask(gtp.NewProtocolVersionCommand()); err != nil {
		return info, fmt.Errorf("handshake: %w", err)
	}
	if info.ProtocolVersion != "" && info.ProtocolVersion != gtp.ProtocolVersion {
		logger.Warn("engine speaks a different protocol version", "version", info.ProtocolVersion)
	}
	if info.Name, err = ask(gtp.NewNameCommand()); err != nil {
		return info, fmt.Errorf("handshake: %w", err)
	}
	if info.Version, err = ask(gtp.NewVersionCommand()); err != nil {
		return info, fmt.Errorf("handshake: %w", err)
	}
	return info, nil
}

// findEngineExecutable resolves an engine name to an executable path. Names
// containing a path separator are used as given.
func findEngineExecutable(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s is not an executable file", name)
	}

	// 1. Check the same directory as the console binary
	if selfPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(selfPath), name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	// 2. Check PATH
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	// 3. Check common locations
	for _, dir := range commonEngineDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or common locations", name)
}

// commonEngineDirs lists directories engines are often installed to
// without being on PATH.
func commonEngineDirs() []string {
	return []string{
		"/usr/local/bin",
		"/opt/homebrew/bin",
		"/usr/games",
		filepath.Join(homeDir(), ".local", "bin"),
	}
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	// Check that it's a regular file with at least one execute bit set
	return !info.IsDir() && info.Mode().Perm()&0111 != 0
}

// homeDir returns the current user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
