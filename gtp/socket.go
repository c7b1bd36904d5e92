package gtp

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// wsReadLimit is the largest websocket message accepted from an engine.
const wsReadLimit = 1 << 20

// SocketTransport is a Transport over a stream connection: a TCP or unix
// socket, or a websocket adapted to a byte stream.
type SocketTransport struct {
	conn net.Conn

	closeOnce sync.Once
	closeErr  error
}

// NewSocketTransport wraps an established connection.
func NewSocketTransport(conn net.Conn) *SocketTransport {
	return &SocketTransport{conn: conn}
}

// DialSocket connects to address on network ("tcp", "tcp4", "tcp6" or
// "unix"). When ctx has no deadline, ConnectionTimeout applies.
func DialSocket(ctx context.Context, network, address string) (*SocketTransport, error) {
	dialCtx, cancel := withDefaultTimeout(ctx, ConnectionTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, network, address)
	if err != nil {
		return nil, NewTransportError("dial "+address, err)
	}
	return NewSocketTransport(conn), nil
}

// DialTCP connects to host:port.
func DialTCP(ctx context.Context, host string, port int) (*SocketTransport, error) {
	return DialSocket(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}

// DialWebSocket connects to a ws:// or wss:// endpoint that carries GTP
// text in text messages. Message boundaries are ignored; the stream is the
// concatenation of all messages.
func DialWebSocket(ctx context.Context, url string) (*SocketTransport, error) {
	dialCtx, cancel := withDefaultTimeout(ctx, ConnectionTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, NewTransportError("dial "+url, err)
	}
	conn.SetReadLimit(wsReadLimit)

	// The NetConn context bounds the connection's lifetime, not the dial.
	return NewSocketTransport(websocket.NetConn(context.Background(), conn, websocket.MessageText)), nil
}

// Read reads engine output.
func (s *SocketTransport) Read(p []byte) (int, error) {
	return s.conn.Read(p)
}

// Write writes command bytes.
func (s *SocketTransport) Write(p []byte) (int, error) {
	return s.conn.Write(p)
}

// Close closes the connection. Safe to call multiple times.
func (s *SocketTransport) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// RemoteAddr returns the address of the engine.
func (s *SocketTransport) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
