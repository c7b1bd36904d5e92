package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Ekenstein/gogtp/gtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replSession runs a REPL over input against engine and returns what it
// printed to stdout and stderr.
func replSession(t *testing.T, engine *fakeEngine, input string) (stdout, stderr string, err error) {
	t.Helper()

	cfg := tcpConfig(engine.addr())
	cfg.Plain = true

	console, err := openConsole(context.Background(), cfg, discardLogger(), io.Discard)
	require.NoError(t, err)
	defer console.Close()

	var out, errOut bytes.Buffer
	editor := NewLineEditor(strings.NewReader(input), &out, "")
	defer editor.Close()

	err = newREPL(console, editor, &out, &errOut, cfg, discardLogger()).Run()
	return out.String(), errOut.String(), err
}

func TestREPL_SendsCommands(t *testing.T) {
	engine := startFakeEngine(t, nil)

	out, errOut, err := replSession(t, engine, "name\nb d4\nb a1\ngen w\n")
	require.NoError(t, err)
	assert.Empty(t, errOut)

	assert.Contains(t, out, "= Fake\n")
	assert.Contains(t, out, "? illegal move\n")
	assert.Contains(t, out, "= D4\n")
	assert.Equal(t, []string{"name", "play", "play", "genmove"}, engine.received())
}

func TestREPL_MultiLineResponse(t *testing.T) {
	engine := startFakeEngine(t, nil)

	out, _, err := replSession(t, engine, "show\n")
	require.NoError(t, err)
	assert.Contains(t, out, "=\n   A B\n 2 . .\n 1 . .\n")
}

func TestREPL_SkipsBlankAndCommentLines(t *testing.T) {
	engine := startFakeEngine(t, nil)

	_, _, err := replSession(t, engine, "\n   \n# a comment\nversion\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"version"}, engine.received())
}

func TestREPL_QuitStopsReading(t *testing.T) {
	for _, quit := range []string{".quit", ".exit", "quit", "QUIT"} {
		t.Run(quit, func(t *testing.T) {
			engine := startFakeEngine(t, nil)

			_, _, err := replSession(t, engine, "name\n"+quit+"\nversion\n")
			require.NoError(t, err)

			// quit itself is sent by Console.Close, after the REPL returns.
			assert.NotContains(t, engine.received(), "version")
		})
	}
}

func TestREPL_DotCommands(t *testing.T) {
	engine := startFakeEngine(t, nil)

	out, errOut, err := replSession(t, engine, ".help\n.help komi\n.state\n.timeout\n.timeout 5s\n.timeout soon\n.frob\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Console commands:")
	assert.Contains(t, out, "komi <komi>")
	assert.Contains(t, out, "open (tcp://"+engine.addr()+")")
	assert.Contains(t, out, "timeout: 1m0s")
	assert.Contains(t, out, "timeout: 5s")
	assert.Contains(t, errOut, `invalid duration "soon"`)
	assert.Contains(t, errOut, "unknown command .frob")
	assert.Empty(t, engine.received())
}

func TestREPL_ShowsSession(t *testing.T) {
	engine := startFakeEngine(t, nil)
	cfg := tcpConfig(engine.addr())

	console, err := openConsole(context.Background(), cfg, discardLogger(), io.Discard)
	require.NoError(t, err)
	defer console.Close()

	var out bytes.Buffer
	editor := NewLineEditor(strings.NewReader(".id\n"), &out, "")
	require.NoError(t, newREPL(console, editor, &out, io.Discard, cfg, discardLogger()).Run())

	assert.Contains(t, out.String(), console.Session())
}

func TestREPL_TimeoutIsNotFatal(t *testing.T) {
	engine := startFakeEngine(t, func(name string, args []string) reply {
		if name == "slow" {
			time.Sleep(300 * time.Millisecond)
		}
		return defaultReplies(name, args)
	})

	out, errOut, err := replSession(t, engine, ".timeout 50ms\nslow\n.timeout 5s\nname\n")
	require.NoError(t, err)

	assert.Contains(t, errOut, "no answer within 50ms")
	assert.Contains(t, out, "= Fake\n")
}

func TestREPL_RejectedInputIsNotSent(t *testing.T) {
	engine := startFakeEngine(t, nil)

	_, errOut, err := replSession(t, engine, "123\nname\n")
	require.NoError(t, err)

	assert.Contains(t, errOut, "Error:")
	assert.Equal(t, []string{"name"}, engine.received())
}

func TestREPL_DesyncEndsSession(t *testing.T) {
	engine := startFakeEngine(t, func(name string, args []string) reply {
		if name == "name" {
			// A stray line after the response breaks the stream.
			return ok("Fake\n\ngarbage")
		}
		return defaultReplies(name, args)
	})

	_, errOut, err := replSession(t, engine, "name\nversion\nlist\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, gtp.ErrProtocolDesync)
	assert.Contains(t, errOut, "desync")
	assert.NotContains(t, engine.received(), "list_commands")
}

func TestIsFatal(t *testing.T) {
	assert.True(t, isFatal(gtp.ErrProtocolDesync))
	assert.True(t, isFatal(gtp.NewTransportError("read", io.ErrUnexpectedEOF)))
	assert.True(t, isFatal(gtp.ErrEngineClosed))
	assert.False(t, isFatal(gtp.ErrEngineTimedOut))
	assert.False(t, isFatal(io.EOF))
}

func TestDescribeTimeout(t *testing.T) {
	assert.Equal(t, "timeout: none", describeTimeout(0))
	assert.Equal(t, "timeout: 2m0s", describeTimeout(2*time.Minute))
}
