// =============================================================================
// main.go - gtpconsole Entry Point
// =============================================================================
//
// gtpconsole is an interactive console for Go-playing engines that speak
// the Go Text Protocol. It starts the engine (or connects to one over TCP,
// a unix socket or a websocket), checks that it answers, and runs a REPL.
//
// Usage:
//
//	gtpconsole -e gnugo -- --mode gtp      Start GNU Go and open the REPL
//	gtpconsole --connect localhost:5000    Talk to an engine over TCP
//	gtpconsole send -e katago -- name      Send one command and print the answer
//	gtpconsole version                     Show the version
//
// For Emacs integration, run it under M-x comint-run; the console detects
// INSIDE_EMACS and leaves line editing to Emacs.
//
// =============================================================================

package main

// Package Imports
//   - "context"     : cancellation for dialing and commands
//   - "os/signal"   : SIGINT/SIGTERM handling
//   - spf13/cobra   : subcommands, help and usage text
//   - spf13/pflag   : the flag set cobra is built on; flags are bound to a
//     struct so the same set serves every subcommand
import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Ekenstein/gogtp/gtp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of gtpconsole.
	version = "0.1.0"

	// appName is the application name.
	appName = "gtpconsole"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner(info engineInfo, target string) string {
	return fmt.Sprintf(`%s - Go Text Protocol console
Connected to %s (%s)

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), info, target)
}

// errFailureResponse makes `send` exit with status 1 after the engine
// answered with a failure. The answer has already been printed.
var errFailureResponse = errors.New("engine reported failure")

// =============================================================================
// Command-Line Flags
// =============================================================================

// GO CONCEPT: Binding Flags to a Struct
// -------------------------------------
// pflag can store each flag directly into a variable (StringVarP and
// friends). Binding them all to fields of one struct keeps the flag set
// in a single place that every subcommand can read, and lets tests build
// a fresh command tree without package-level state leaking between them.

// cliFlags holds the values of the persistent flags.
type cliFlags struct {
	configPath     string
	envPath        string
	engine         string
	args           []string
	dir            string
	connect        string
	unix           string
	websocket      string
	timeout        time.Duration
	dialect        string
	lineTerminator string
	history        string
	plain          bool
	verbose        bool
}

// addFlags registers the flags on fs.
func (f *cliFlags) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "config file (default ~/"+configFileName+")")
	fs.StringVar(&f.envPath, "env", dotEnvFileName, "dotenv file with "+envPrefix+"* variables")
	fs.StringVarP(&f.engine, "engine", "e", "", "engine executable to start")
	fs.StringArrayVar(&f.args, "arg", nil, "argument passed to the engine (repeatable)")
	fs.StringVar(&f.dir, "dir", "", "working directory for the engine")
	fs.StringVarP(&f.connect, "connect", "c", "", "host:port of an engine listening on TCP")
	fs.StringVar(&f.unix, "unix", "", "path of an engine's unix socket")
	fs.StringVar(&f.websocket, "websocket", "", "ws:// or wss:// URL of an engine")
	fs.DurationVarP(&f.timeout, "timeout", "t", defaultCommandTimeout, "timeout for each command (0 waits forever)")
	fs.StringVar(&f.dialect, "dialect", gtp.DialectCorrelated.String(), "response matching: correlated or fifo")
	fs.StringVar(&f.lineTerminator, "line-terminator", terminatorLF, "request line ending: lf or crlf")
	fs.StringVar(&f.history, "history", "", "REPL history file (default ~/"+historyFileName+")")
	fs.BoolVar(&f.plain, "plain", false, "disable colored output")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log protocol traffic and engine stderr")
}

// apply copies the flags the user set onto cfg. Flags left at their
// defaults do not override the config file or environment.
func (f *cliFlags) apply(cfg *Config, fs *pflag.FlagSet) {
	changed := func(name string) bool {
		flag := fs.Lookup(name)
		return flag != nil && flag.Changed
	}

	if changed("engine") {
		cfg.Engine = f.engine
	}
	if changed("arg") {
		cfg.Args = append(cfg.Args, f.args...)
	}
	if changed("dir") {
		cfg.Dir = f.dir
	}
	if changed("connect") {
		cfg.Connect = f.connect
	}
	if changed("unix") {
		cfg.Unix = f.unix
	}
	if changed("websocket") {
		cfg.WebSocket = f.websocket
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("dialect") {
		cfg.Dialect = f.dialect
	}
	if changed("line-terminator") {
		cfg.LineTerminator = f.lineTerminator
	}
	if changed("history") {
		cfg.History = f.history
	}
	if changed("plain") {
		cfg.Plain = f.plain
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
}

// loadConfig resolves the configuration layers into a validated Config.
// Both --arg values and engineArgs are appended to the engine arguments of
// the config file and environment, in that order.
func loadConfig(f *cliFlags, fs *pflag.FlagSet, engineArgs []string) (Config, error) {
	cfg := defaultConfig()

	path, optional := f.configPath, false
	if path == "" {
		path, optional = defaultConfigPath(), true
	}
	if err := loadConfigFile(&cfg, path, optional); err != nil {
		return Config{}, err
	}

	dotenv, err := loadDotEnv(f.envPath)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, envLookup(dotenv)); err != nil {
		return Config{}, err
	}

	f.apply(&cfg, fs)
	if len(engineArgs) > 0 {
		cfg.Args = append(cfg.Args, engineArgs...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// newLogger returns a text logger on w. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// =============================================================================
// Commands
// =============================================================================

// newRootCommand builds the command tree. Reading and writing go through
// the given streams so tests can drive the whole program.
func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   appName + " [flags] [-- engine args...]",
		Short: "Interactive console for Go Text Protocol engines",
		Long: `gtpconsole starts a GTP engine, or connects to one over TCP, a unix
socket or a websocket, and opens a REPL for sending it commands.

Configuration is read from ~/` + configFileName + `, a .env file and
` + envPrefix + `* environment variables; flags override all of them.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, cmd.Flags(), args)
			if err != nil {
				return err
			}
			return runInteractive(cmd.Context(), cfg, stdin, stdout, stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(appName + " version {{.Version}}\n")
	flags.addFlags(root.PersistentFlags())

	root.AddCommand(newSendCommand(flags, stdout, stderr), newVersionCommand())
	return root
}

// newSendCommand builds `send`, which sends one command and prints the
// answer. It exits with status 1 when the engine reports a failure.
func newSendCommand(flags *cliFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "send [flags] -- command [args...]",
		Short: "Send one command and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, cmd.Flags(), nil)
			if err != nil {
				return err
			}
			return runSend(cmd.Context(), cfg, strings.Join(args, " "), stdout, stderr)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version %s\n", appName, version)
		},
	}
}

// runInteractive connects to the engine and runs the REPL until the user
// quits.
func runInteractive(ctx context.Context, cfg Config, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Verbose)

	dialCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	console, err := openConsole(dialCtx, cfg, logger, stderr)
	cancel()
	if err != nil {
		return err
	}

	info, err := handshake(console, logger)
	if err != nil {
		console.Close()
		return err
	}

	editor := NewLineEditor(stdin, stdout, cfg.History)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			editor.Close()
			if err := console.Close(); err != nil {
				logger.Debug("engine did not exit cleanly", "error", err)
			}
		})
	}
	stop := setupSignalHandler(stderr, cleanup)
	defer stop()

	fmt.Fprint(stdout, welcomeBanner(info, cfg.target()))
	fmt.Fprintln(stdout)

	err = newREPL(console, editor, stdout, stderr, cfg, logger).Run()
	cleanup()
	return err
}

// runSend sends commandLine and prints the answer.
func runSend(ctx context.Context, cfg Config, commandLine string, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Verbose)

	dialCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	console, err := openConsole(dialCtx, cfg, logger, stderr)
	cancel()
	if err != nil {
		return err
	}
	defer console.Close()

	resp, err := console.SendRawWithTimeout(translateInput(commandLine), cfg.Timeout)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, newStyles(cfg.Plain).formatResponse(resp))
	if resp.IsFailure() {
		return errFailureResponse
	}
	return nil
}

// =============================================================================
// Signal Handling
// =============================================================================

// GO CONCEPT: Channels and Goroutines
// ------------------------------------
// signal.Notify delivers SIGINT and SIGTERM to a buffered channel instead
// of killing the process. A goroutine waits on that channel and on a done
// channel; whichever fires first decides whether cleanup runs. Closing
// done is how the returned stop function releases the goroutine once the
// REPL has ended normally.

// setupSignalHandler runs cleanup and exits when SIGINT or SIGTERM
// arrives, so that a started engine is not left behind. The returned
// function uninstalls the handler.
func setupSignalHandler(stderr io.Writer, cleanup func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(stderr)
			cleanup()
			os.Exit(130)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}

// =============================================================================
// Main
// =============================================================================

// run executes the command line and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errFailureResponse) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
