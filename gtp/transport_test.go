package gtp

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenFakeEngine accepts connections on ln and serves each with handle.
func listenFakeEngine(t *testing.T, ln net.Listener, handle engineFunc) {
	t.Helper()
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				serveGTP(conn, conn, handle, nil)
			}()
		}
	}()
}

func TestOpenSocketTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	listenFakeEngine(t, ln, echoEngine)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := OpenSocket(ctx, "tcp", ln.Addr().String(), WithCommandTimeout(time.Second))
	require.NoError(t, err)

	resp, err := c.Send(NewKomiCommand(6.5))
	require.NoError(t, err)
	assert.Equal(t, "6.5", resp.Data)
	require.NoError(t, c.Close())
}

func TestDialTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	listenFakeEngine(t, ln, echoEngine)

	port := ln.Addr().(*net.TCPAddr).Port
	tr, err := DialTCP(context.Background(), "127.0.0.1", port)
	require.NoError(t, err)
	assert.Equal(t, ln.Addr().String(), tr.RemoteAddr().String())
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
}

func TestOpenSocketUnix(t *testing.T) {
	dir, err := os.MkdirTemp("", "gtp")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "engine.sock")

	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	listenFakeEngine(t, ln, echoEngine)

	c, err := OpenSocket(context.Background(), "unix", path)
	require.NoError(t, err)

	resp, err := c.SendWithTimeout(NewGenMoveCommand(Black), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "black", resp.Data)
	require.NoError(t, c.Close())
}

func TestDialSocketRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = OpenSocket(context.Background(), "tcp", addr)
	require.ErrorIs(t, err, ErrTransportFailure)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "dial "+addr, te.Op)
}

func TestOpenWebSocket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		nc := websocket.NetConn(r.Context(), conn, websocket.MessageText)
		defer nc.Close()
		serveGTP(nc, nc, echoEngine, nil)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := OpenWebSocket(context.Background(), url, WithCommandTimeout(time.Second))
	require.NoError(t, err)

	resp, err := c.Send(NewPlayCommand(Move{Color: White, Vertex: Point(16, 4)}))
	require.NoError(t, err)
	assert.Equal(t, "white Q4", resp.Data)

	resp, err = c.Send(NewBoardSizeCommand(9))
	require.NoError(t, err)
	assert.Equal(t, "9", resp.Data)

	// The server may finish the close handshake first.
	c.Close()
	assert.Equal(t, StateClosed, c.State())
}

func TestOpenWebSocketBadURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, err := OpenWebSocket(context.Background(), url)
	assert.ErrorIs(t, err, ErrTransportFailure)
}

func testExecutable(t *testing.T) string {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	return exe
}

func TestOpenProcess(t *testing.T) {
	var stderr bytes.Buffer
	c, err := OpenProcess(ProcessConfig{
		Path:   testExecutable(t),
		Env:    []string{fakeEngineEnv + "=1"},
		Stderr: &stderr,
	}, WithCommandTimeout(5*time.Second))
	require.NoError(t, err)

	resp, err := c.Send(NewNameCommand())
	require.NoError(t, err)
	assert.Equal(t, "fake", resp.Data)

	resp, err = c.Send(NewBoardSizeCommand(13))
	require.NoError(t, err)
	assert.Equal(t, "13", resp.Data)

	require.NoError(t, c.Close())
	assert.Contains(t, stderr.String(), "fake engine ready")
}

func TestProcessStderrIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tr, err := StartProcess(ProcessConfig{
		Path:   testExecutable(t),
		Env:    []string{fakeEngineEnv + "=1"},
		Logger: logger,
	})
	require.NoError(t, err)
	assert.NotZero(t, tr.Pid())

	require.NoError(t, tr.Close())
	assert.Contains(t, logs.String(), "fake engine ready")
}

func TestProcessExitStatus(t *testing.T) {
	tr, err := StartProcess(ProcessConfig{
		Path: testExecutable(t),
		Env:  []string{fakeEngineEnv + "=fail"},
	})
	require.NoError(t, err)

	err = tr.Close()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestProcessIgnoringStdinIsTerminated(t *testing.T) {
	tr, err := StartProcess(ProcessConfig{
		Path:        testExecutable(t),
		Env:         []string{fakeEngineEnv + "=stubborn"},
		GracePeriod: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, tr.Close())
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case <-tr.Exited():
	default:
		t.Fatal("process still running after Close")
	}
}

func TestStartProcessErrors(t *testing.T) {
	_, err := StartProcess(ProcessConfig{})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)

	_, err = StartProcess(ProcessConfig{Path: "gogtp-no-such-engine"})
	assert.ErrorIs(t, err, ErrTransportFailure)
}
