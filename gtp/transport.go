package gtp

import (
	"context"
	"io"
)

// Transport is the byte stream a Console runs over: the engine's output is
// read from it, commands are written to it, and Close tears it down.
//
// The Console reads from exactly one goroutine and writes from one sender at
// a time, so implementations need not support concurrent reads or
// concurrent writes. Close must be safe to call more than once and must
// unblock a pending Read.
type Transport interface {
	io.Reader
	io.Writer
	Close() error
}

// Compile-time interface checks.
var (
	_ Transport = (*ProcessTransport)(nil)
	_ Transport = (*SocketTransport)(nil)
)

// OpenProcess starts an engine executable and returns a console over its
// standard input and output.
func OpenProcess(cfg ProcessConfig, opts ...Option) (*Console, error) {
	t, err := StartProcess(cfg)
	if err != nil {
		return nil, err
	}
	return NewConsole(t, opts...), nil
}

// OpenSocket connects to an engine listening on network ("tcp" or "unix")
// and returns a console over the connection.
func OpenSocket(ctx context.Context, network, address string, opts ...Option) (*Console, error) {
	t, err := DialSocket(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return NewConsole(t, opts...), nil
}

// OpenWebSocket connects to an engine behind a websocket endpoint and
// returns a console over the connection.
func OpenWebSocket(ctx context.Context, url string, opts ...Option) (*Console, error) {
	t, err := DialWebSocket(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewConsole(t, opts...), nil
}
