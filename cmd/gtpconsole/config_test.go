package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func lookupFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, defaultCommandTimeout, cfg.Timeout)
	assert.Equal(t, "correlated", cfg.Dialect)
	assert.Equal(t, terminatorLF, cfg.LineTerminator)
	assert.Equal(t, historyFileName, filepath.Base(cfg.History))
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeFile(t, "console.yaml", `
engine: gnugo
args: ["--mode", "gtp", "--level", "3"]
dir: /tmp
timeout: 90s
dialect: fifo
line_terminator: crlf
plain: true
`)

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(&cfg, path, false))

	assert.Equal(t, "gnugo", cfg.Engine)
	assert.Equal(t, []string{"--mode", "gtp", "--level", "3"}, cfg.Args)
	assert.Equal(t, "/tmp", cfg.Dir)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "fifo", cfg.Dialect)
	assert.Equal(t, terminatorCRLF, cfg.LineTerminator)
	assert.True(t, cfg.Plain)
}

func TestLoadConfigFile_TOML(t *testing.T) {
	path := writeFile(t, "console.toml", `
connect = "localhost:5000"
timeout = "2m"
verbose = true
`)

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(&cfg, path, false))

	assert.Equal(t, "localhost:5000", cfg.Connect)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "correlated", cfg.Dialect, "unset keys keep their defaults")
}

func TestLoadConfigFile_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, "console.yaml", "engine: katago\n")

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(&cfg, path, false))

	assert.Equal(t, "katago", cfg.Engine)
	assert.Equal(t, defaultCommandTimeout, cfg.Timeout)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	cfg := defaultConfig()

	assert.NoError(t, loadConfigFile(&cfg, missing, true))
	assert.Error(t, loadConfigFile(&cfg, missing, false))
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad yaml", "c.yaml", "engine: [unclosed\n"},
		{"bad toml", "c.toml", "engine = \n"},
		{"bad timeout", "c.yaml", "timeout: soon\n"},
		{"unknown format", "c.ini", "engine=gnugo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			cfg := defaultConfig()
			assert.Error(t, loadConfigFile(&cfg, path, false))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "GTPCONSOLE_ENGINE=leela\n# comment\nGTPCONSOLE_TIMEOUT=5s\n")

	values, err := loadDotEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "leela", values["GTPCONSOLE_ENGINE"])
	assert.Equal(t, "5s", values["GTPCONSOLE_TIMEOUT"])
}

func TestLoadDotEnv_Missing(t *testing.T) {
	values, err := loadDotEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestEnvLookup_ProcessEnvironmentWins(t *testing.T) {
	t.Setenv("GTPCONSOLE_TEST_VALUE", "from-env")
	lookup := envLookup(map[string]string{
		"GTPCONSOLE_TEST_VALUE": "from-dotenv",
		"GTPCONSOLE_TEST_ONLY":  "dotenv-only",
	})

	v, ok := lookup("GTPCONSOLE_TEST_VALUE")
	assert.True(t, ok)
	assert.Equal(t, "from-env", v)

	v, ok = lookup("GTPCONSOLE_TEST_ONLY")
	assert.True(t, ok)
	assert.Equal(t, "dotenv-only", v)

	_, ok = lookup("GTPCONSOLE_TEST_ABSENT")
	assert.False(t, ok)
}

func TestApplyEnv(t *testing.T) {
	cfg := defaultConfig()
	err := applyEnv(&cfg, lookupFrom(map[string]string{
		"GTPCONSOLE_ENGINE":          "gnugo",
		"GTPCONSOLE_ARGS":            "--mode gtp",
		"GTPCONSOLE_TIMEOUT":         "3s",
		"GTPCONSOLE_DIALECT":         "fifo",
		"GTPCONSOLE_LINE_TERMINATOR": "crlf",
		"GTPCONSOLE_PLAIN":           "true",
		"GTPCONSOLE_DEBUG":           "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "gnugo", cfg.Engine)
	assert.Equal(t, []string{"--mode", "gtp"}, cfg.Args)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "fifo", cfg.Dialect)
	assert.Equal(t, terminatorCRLF, cfg.LineTerminator)
	assert.True(t, cfg.Plain)
	assert.True(t, cfg.Verbose)
}

func TestApplyEnv_Errors(t *testing.T) {
	for _, env := range []map[string]string{
		{"GTPCONSOLE_TIMEOUT": "later"},
		{"GTPCONSOLE_PLAIN": "maybe"},
		{"GTPCONSOLE_DEBUG": "loud"},
	} {
		cfg := defaultConfig()
		assert.Error(t, applyEnv(&cfg, lookupFrom(env)), "%v", env)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := defaultConfig()
		cfg.Connect = "localhost:5000"
		return cfg
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"no transport", func(c *Config) { c.Connect = "" }, "no engine given"},
		{"two transports", func(c *Config) { c.Engine = "gnugo" }, "only one transport"},
		{"bad dialect", func(c *Config) { c.Dialect = "chatty" }, "dialect"},
		{"bad terminator", func(c *Config) { c.LineTerminator = "cr" }, "line terminator"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigTerminator(t *testing.T) {
	cfg := defaultConfig()
	term, err := cfg.terminator()
	require.NoError(t, err)
	assert.Equal(t, "\n", term)

	cfg.LineTerminator = "CRLF"
	term, err = cfg.terminator()
	require.NoError(t, err)
	assert.Equal(t, "\r\n", term)
}

func TestConfigTarget(t *testing.T) {
	assert.Equal(t, "gnugo --mode gtp", Config{Engine: "gnugo", Args: []string{"--mode", "gtp"}}.target())
	assert.Equal(t, "tcp://localhost:5000", Config{Connect: "localhost:5000"}.target())
	assert.Equal(t, "unix:///tmp/engine.sock", Config{Unix: "/tmp/engine.sock"}.target())
	assert.Equal(t, "ws://localhost/gtp", Config{WebSocket: "ws://localhost/gtp"}.target())
}
