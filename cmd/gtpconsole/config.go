// =============================================================================
// config.go - Configuration Loading
// =============================================================================
//
// The console is configured from five layers, lowest precedence first:
//
//   1. Built-in defaults (defaultConfig)
//   2. A config file: ~/.gtpconsole.yaml, or the file named by --config.
//      .yaml/.yml files are decoded with yaml.v3, .toml files with go-toml.
//   3. A .env file in the working directory (or --env), read with godotenv
//   4. GTPCONSOLE_* environment variables
//   5. Command-line flags
//
// Exactly one transport must be chosen: an engine executable, a TCP
// address, a unix socket path, or a websocket URL.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ekenstein/gogtp/gtp"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// configFileName is the default config file in the home directory.
	configFileName = ".gtpconsole.yaml"

	// dotEnvFileName is the optional .env file in the working directory.
	dotEnvFileName = ".env"

	// envPrefix prefixes every environment variable the console reads.
	envPrefix = "GTPCONSOLE_"

	// defaultCommandTimeout bounds each command sent from the REPL.
	// genmove on a strong engine can take a while.
	defaultCommandTimeout = 60 * time.Second
)

// Line terminator names accepted in configuration.
const (
	terminatorLF   = "lf"
	terminatorCRLF = "crlf"
)

// Config holds the resolved console configuration.
type Config struct {
	// Engine is the executable to start, resolved by findEngineExecutable.
	Engine string `yaml:"engine" toml:"engine"`

	// Args are passed to Engine.
	Args []string `yaml:"args" toml:"args"`

	// Dir is the engine's working directory.
	Dir string `yaml:"dir" toml:"dir"`

	// Connect is a host:port to reach an engine over TCP.
	Connect string `yaml:"connect" toml:"connect"`

	// Unix is the path of a unix socket an engine listens on.
	Unix string `yaml:"unix" toml:"unix"`

	// WebSocket is a ws:// or wss:// URL of an engine bridge.
	WebSocket string `yaml:"websocket" toml:"websocket"`

	// Timeout bounds each command. Zero waits forever.
	Timeout time.Duration `yaml:"-" toml:"-"`

	// Dialect is "correlated" or "fifo".
	Dialect string `yaml:"dialect" toml:"dialect"`

	// LineTerminator is "lf" or "crlf".
	LineTerminator string `yaml:"line_terminator" toml:"line_terminator"`

	// Plain disables styled output.
	Plain bool `yaml:"plain" toml:"plain"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" toml:"verbose"`

	// History is the REPL history file.
	History string `yaml:"history" toml:"history"`
}

// fileConfig is the on-disk form of Config. The timeout is a duration
// string such as "30s".
type fileConfig struct {
	Config  `yaml:",inline"`
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		Timeout:        defaultCommandTimeout,
		Dialect:        gtp.DialectCorrelated.String(),
		LineTerminator: terminatorLF,
		History:        filepath.Join(homeDir(), historyFileName),
	}
}

// defaultConfigPath returns ~/.gtpconsole.yaml.
func defaultConfigPath() string {
	return filepath.Join(homeDir(), configFileName)
}

// loadConfigFile merges the file at path into cfg. A missing file is not an
// error when optional is set.
func loadConfigFile(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	fc := fileConfig{Config: *cfg}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		// go-toml has no inline tag; decode the embedded fields and the
		// timeout separately.
		if err := toml.Unmarshal(data, &fc.Config); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		var extra struct {
			Timeout string `toml:"timeout"`
		}
		if err := toml.Unmarshal(data, &extra); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		fc.Timeout = extra.Timeout
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse %s: timeout: %w", path, err)
		}
		fc.Config.Timeout = d
	}
	*cfg = fc.Config
	return nil
}

// loadDotEnv reads path as a .env file. A missing file yields an empty map
// so that .env files remain optional.
func loadDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// envLookup looks variables up in the process environment first, then in
// the values read from a .env file.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// applyEnv overrides cfg with GTPCONSOLE_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = b
		return nil
	}

	str("ENGINE", &cfg.Engine)
	str("DIR", &cfg.Dir)
	str("CONNECT", &cfg.Connect)
	str("UNIX", &cfg.Unix)
	str("WEBSOCKET", &cfg.WebSocket)
	str("DIALECT", &cfg.Dialect)
	str("LINE_TERMINATOR", &cfg.LineTerminator)
	str("HISTORY", &cfg.History)

	if v, ok := lookup(envPrefix + "ARGS"); ok {
		cfg.Args = strings.Fields(v)
	}
	if v, ok := lookup(envPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		cfg.Timeout = d
	}
	if err := boolean("PLAIN", &cfg.Plain); err != nil {
		return err
	}
	return boolean("DEBUG", &cfg.Verbose)
}

// Validate checks that the configuration names exactly one transport and
// that every value can be used.
func (c Config) Validate() error {
	var chosen []string
	for _, t := range []struct{ name, value string }{
		{"--engine", c.Engine},
		{"--connect", c.Connect},
		{"--unix", c.Unix},
		{"--websocket", c.WebSocket},
	} {
		if t.value != "" {
			chosen = append(chosen, t.name)
		}
	}
	switch len(chosen) {
	case 0:
		return errors.New("no engine given: use --engine, --connect, --unix or --websocket")
	case 1:
	default:
		return fmt.Errorf("only one transport may be given, got %s", strings.Join(chosen, " and "))
	}

	if _, err := gtp.ParseDialect(c.Dialect); err != nil {
		return fmt.Errorf("dialect: %w", err)
	}
	if _, err := c.terminator(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func (c Config) terminator() (string, error) {
	switch strings.ToLower(c.LineTerminator) {
	case "", terminatorLF:
		return "\n", nil
	case terminatorCRLF:
		return "\r\n", nil
	default:
		return "", fmt.Errorf("line terminator must be %q or %q, got %q", terminatorLF, terminatorCRLF, c.LineTerminator)
	}
}

// consoleOptions converts the configuration into console options. The
// configuration must have been validated.
func (c Config) consoleOptions(logger *slog.Logger) []gtp.Option {
	dialect, _ := gtp.ParseDialect(c.Dialect)
	terminator, _ := c.terminator()
	return []gtp.Option{
		gtp.WithDialect(dialect),
		gtp.WithCommandTimeout(c.Timeout),
		gtp.WithLineTerminator(terminator),
		gtp.WithLogger(logger),
	}
}

// target describes the chosen transport for messages.
func (c Config) target() string {
	switch {
	case c.Engine != "":
		return strings.Join(append([]string{c.Engine}, c.Args...), " ")
	case c.Connect != "":
		return "tcp://" + c.Connect
	case c.Unix != "":
		return "unix://" + c.Unix
	default:
		return c.WebSocket
	}
}
