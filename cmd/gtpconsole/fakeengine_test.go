// =============================================================================
// fakeengine_test.go - Fake GTP Engine for Testing
// =============================================================================
//
// A small GTP engine listening on a loopback TCP port. Each test decides
// how commands are answered; everything else (ids, framing, quit) is
// handled here so the console can be tested end to end without a real
// engine installed.
//
// =============================================================================

package main

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// reply is a fake engine's answer to one command.
type reply struct {
	ok      bool
	payload string
}

func ok(payload string) reply { return reply{ok: true, payload: payload} }
func failed(message string) reply { return reply{payload: message} }

// fakeEngine serves GTP on a loopback TCP listener.
type fakeEngine struct {
	listener net.Listener
	handle   func(name string, args []string) reply

	mu       sync.Mutex
	commands []string
	quits    int
	conns    []net.Conn
	wg       sync.WaitGroup
}

// defaultReplies answers the handshake and echoes anything else.
func defaultReplies(name string, args []string) reply {
	switch name {
	case "protocol_version":
		return ok("2")
	case "name":
		return ok("Fake")
	case "version":
		return ok("1.0")
	case "showboard":
		return ok("\n   A B\n 2 . .\n 1 . .")
	case "play":
		if len(args) == 2 && strings.EqualFold(args[1], "A1") {
			return failed("illegal move")
		}
		return ok("")
	case "genmove":
		return ok("D4")
	default:
		return ok(strings.Join(args, " "))
	}
}

// startFakeEngine listens on 127.0.0.1 and serves until the test ends. A
// nil handle uses defaultReplies.
func startFakeEngine(t *testing.T, handle func(name string, args []string) reply) *fakeEngine {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	if handle == nil {
		handle = defaultReplies
	}
	e := &fakeEngine{listener: ln, handle: handle}

	e.wg.Add(1)
	go e.acceptLoop()

	t.Cleanup(e.stop)
	return e
}

// addr is the host:port to pass to --connect.
func (e *fakeEngine) addr() string {
	return e.listener.Addr().String()
}

// received returns the command names seen so far, in order, leaving out
// quit.
func (e *fakeEngine) received() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.commands...)
}

// quitCount returns how many quit commands were answered.
func (e *fakeEngine) quitCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quits
}

func (e *fakeEngine) acceptLoop() {
	defer e.wg.Done()
	for {
		conn, err := e.listener.Accept()
		if err != nil {
			return
		}
		e.mu.Lock()
		e.conns = append(e.conns, conn)
		e.mu.Unlock()

		e.wg.Add(1)
		go e.serve(conn)
	}
}

func (e *fakeEngine) serve(conn net.Conn) {
	defer e.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimRight(scanner.Text(), "\r"))
		if len(fields) == 0 {
			continue
		}
		id := ""
		if _, err := strconv.Atoi(fields[0]); err == nil {
			id, fields = fields[0], fields[1:]
		}
		if len(fields) == 0 {
			continue
		}
		name, args := fields[0], fields[1:]

		r := ok("")
		e.mu.Lock()
		if name == "quit" {
			e.quits++
		} else {
			e.commands = append(e.commands, name)
		}
		e.mu.Unlock()
		if name != "quit" {
			r = e.handle(name, args)
		}
		marker := "?"
		if r.ok {
			marker = "="
		}
		if _, err := conn.Write([]byte(marker + id + " " + r.payload + "\n\n")); err != nil {
			return
		}
		if name == "quit" {
			return
		}
	}
}

func (e *fakeEngine) stop() {
	e.listener.Close()
	e.mu.Lock()
	for _, c := range e.conns {
		c.Close()
	}
	e.mu.Unlock()
	e.wg.Wait()
}
