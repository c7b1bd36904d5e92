package gtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// firstID is the id of the first command of every session.
const firstID = 1

// State is the lifecycle state of a Console. It only moves from StateOpen
// to StateClosed.
type State int32

const (
	// StateOpen accepts commands.
	StateOpen State = iota
	// StateClosed rejects commands with ErrEngineClosed.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "open"
}

// Console drives a GTP engine over a Transport.
//
// Commands are written by one sender at a time; the write permit is held
// only while a command is encoded and written, so waiting for an answer never
// blocks other senders or Close. A single background reader decodes the
// engine's output and hands each response to the sender that owns its id.
//
// Thread Safety:
// All methods are safe for concurrent use from multiple goroutines.
type Console struct {
	transport Transport
	opts      Options
	logger    *slog.Logger
	session   string

	// permit is the single-writer permit, a channel of capacity one. The
	// holder owns nextID and the write side of the transport.
	permit chan struct{}
	nextID int

	state atomic.Int32

	store  *responseStore
	reader *lineReader

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}

	transportOnce sync.Once
	transportErr  error
}

// NewConsole takes ownership of t and starts the reader. The transport is
// closed by Close.
func NewConsole(t Transport, opts ...Option) *Console {
	o := ResolveOptions(opts...)
	session := uuid.NewString()
	logger := o.Logger.With("session", session, "dialect", o.Dialect.String())

	c := &Console{
		transport: t,
		opts:      o,
		logger:    logger,
		session:   session,
		permit:    make(chan struct{}, 1),
		nextID:    firstID,
		done:      make(chan struct{}),
	}
	c.store = newResponseStore(o.OrphanLimit, logger)
	c.reader = newLineReader(t, c.store, o.Dialect, firstID, c.isClosing, logger)

	go c.reader.run()
	logger.Debug("console opened")
	return c
}

// Session returns the random id that tags this console's log records.
func (c *Console) Session() string {
	return c.session
}

// State returns the lifecycle state.
func (c *Console) State() State {
	return State(c.state.Load())
}

// Done returns a channel that is closed when Close has finished.
func (c *Console) Done() <-chan struct{} {
	return c.done
}

// Err returns the terminal error of the session: a *ProtocolError, a
// *TransportError, or ErrEngineClosed after Close. It returns nil while the
// session is healthy.
func (c *Console) Err() error {
	return c.store.Err()
}

func (c *Console) isClosing() bool {
	return c.State() == StateClosed
}

// Send sends a command and waits for its response.
// Uses the console's command timeout; zero waits without limit.
func (c *Console) Send(cmd Command) (Response, error) {
	return c.SendWithTimeout(cmd, c.opts.CommandTimeout)
}

// SendWithTimeout sends a command with a custom timeout. A timeout of zero
// or less waits without limit.
func (c *Console) SendWithTimeout(cmd Command, timeout time.Duration) (Response, error) {
	if timeout <= 0 {
		return c.SendWithContext(context.Background(), cmd)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.SendWithContext(ctx, cmd)
}

// SendWithContext sends a command and waits for its response until ctx is
// done.
//
// A failure response from the engine is returned as a Response, not as an
// error. Errors are ErrEngineClosed (nothing was written), an error wrapping
// ErrEngineTimedOut when ctx's deadline passed, ctx.Err() for other
// cancellations, or the terminal *ProtocolError / *TransportError of the
// session. ctx bounds the wait for the write permit, the write and the
// wait for the answer. A command that timed out while waiting for its
// answer has been sent and the engine may still execute it; one that timed
// out in the middle of its write ends the session.
func (c *Console) SendWithContext(ctx context.Context, cmd Command) (Response, error) {
	if c.isClosing() {
		return Response{}, ErrEngineClosed
	}
	if err := cmd.Validate(); err != nil {
		return Response{}, err
	}

	id, ch, err := c.submit(ctx, cmd)
	if err != nil {
		return Response{}, err
	}
	return c.await(ctx, cmd, id, ch)
}

// SendRaw parses a command line typed by a user and sends it.
// The line should not include an id or trailing newline.
func (c *Console) SendRaw(commandLine string) (Response, error) {
	return c.SendRawWithTimeout(commandLine, c.opts.CommandTimeout)
}

// SendRawWithTimeout sends a raw command line with a custom timeout.
func (c *Console) SendRawWithTimeout(commandLine string, timeout time.Duration) (Response, error) {
	cmd, err := ParseCommand(commandLine)
	if err != nil {
		return Response{}, err
	}
	return c.SendWithTimeout(cmd, timeout)
}

// SendRawWithContext sends a raw command line with a context.
func (c *Console) SendRawWithContext(ctx context.Context, commandLine string) (Response, error) {
	cmd, err := ParseCommand(commandLine)
	if err != nil {
		return Response{}, err
	}
	return c.SendWithContext(ctx, cmd)
}

// submit takes the write permit, rejects the command if the console is
// closed, and writes it. Both the wait for the permit and the write are
// bounded by ctx.
func (c *Console) submit(ctx context.Context, cmd Command) (int, <-chan result, error) {
	select {
	case c.permit <- struct{}{}:
	case <-ctx.Done():
		return 0, nil, c.expired(ctx, cmd, "waiting to write")
	}
	defer func() { <-c.permit }()

	if c.isClosing() {
		return 0, nil, ErrEngineClosed
	}
	return c.writeLocked(ctx, cmd)
}

// writeLocked assigns the next id, registers its waiter and writes the
// command. The caller must hold the permit. A failed or unfinished write
// leaves the engine in an unknown state, so it ends the session.
func (c *Console) writeLocked(ctx context.Context, cmd Command) (int, <-chan result, error) {
	id := c.nextID
	ch, err := c.store.expect(id)
	if err != nil {
		return 0, nil, err
	}
	c.nextID++

	line := encodeLine(cmd, id, c.opts.Dialect == DialectCorrelated, c.opts.LineTerminator)
	if err := c.write(ctx, line); err != nil {
		c.store.abandon(id)
		if ctx.Err() != nil {
			// The line may be half written. Closing the transport fails
			// the blocked write and every later one.
			c.logger.Error("write did not finish", "id", id, "command", cmd.Name, "error", ctx.Err())
			c.store.fail(c.terminal(NewTransportError("write", ctx.Err())))
			c.closeTransport()
			return 0, nil, c.expired(ctx, cmd, "writing")
		}
		c.logger.Error("write failed", "id", id, "command", cmd.Name, "error", err)
		terr := c.terminal(NewTransportError("write", err))
		c.store.fail(terr)
		return 0, nil, terr
	}

	c.logger.Debug("sent", "id", id, "line", strings.TrimRight(line, "\r\n"))
	return id, ch, nil
}

// write writes line to the transport and gives up when ctx is done. The
// abandoned write keeps running until the transport is closed.
func (c *Console) write(ctx context.Context, line string) error {
	if ctx.Done() == nil {
		_, err := io.WriteString(c.transport, line)
		return err
	}

	errc := make(chan error, 1)
	go func() {
		_, err := io.WriteString(c.transport, line)
		errc <- err
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		select {
		case err := <-errc:
			return err
		default:
			return ctx.Err()
		}
	}
}

// terminal returns ErrEngineClosed once Close has started, err otherwise.
func (c *Console) terminal(err error) error {
	if c.isClosing() {
		return ErrEngineClosed
	}
	return err
}

// expired is the error of a command whose ctx ended before it was written.
func (c *Console) expired(ctx context.Context, cmd Command, stage string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.logger.Debug("timed out", "command", cmd.Name, "stage", stage)
		return fmt.Errorf("%w: %s (%s)", ErrEngineTimedOut, cmd.Name, stage)
	}
	return ctx.Err()
}

// closeTransport closes the transport once and remembers the result.
func (c *Console) closeTransport() error {
	c.transportOnce.Do(func() {
		c.transportErr = c.transport.Close()
	})
	return c.transportErr
}

// await blocks until the response for id arrives, the session ends, or ctx
// is done.
func (c *Console) await(ctx context.Context, cmd Command, id int, ch <-chan result) (Response, error) {
	select {
	case r := <-ch:
		return r.response, r.err
	case <-ctx.Done():
		c.store.abandon(id)
		// The response may have been delivered just before the waiter was
		// dropped.
		select {
		case r := <-ch:
			return r.response, r.err
		default:
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.logger.Debug("timed out", "id", id, "command", cmd.Name)
			return Response{}, fmt.Errorf("%w: %s (id %d)", ErrEngineTimedOut, cmd.Name, id)
		}
		return Response{}, ctx.Err()
	}
}

// Close sends quit, stops the reader and closes the transport. Safe to call
// multiple times and from multiple goroutines: the first call performs the
// teardown, the others wait for it and return the same result.
//
// Commands waiting for an answer when Close runs either receive it (if the
// engine answers before quit) or fail with ErrEngineClosed.
func (c *Console) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.shutdown()
		close(c.done)
	})
	<-c.done
	return c.closeErr
}

func (c *Console) shutdown() error {
	timeout := c.opts.CloseTimeout

	// A sender stuck in a blocking write keeps the permit. In that case the
	// state is flipped without it and closing the transport below fails
	// the stuck write. The quit write itself is bounded by the same
	// timeout.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		quitCh <-chan result
		err    error
	)
	select {
	case c.permit <- struct{}{}:
		c.state.Store(int32(StateClosed))
		_, quitCh, err = c.writeLocked(ctx, NewQuitCommand())
		<-c.permit
	case <-ctx.Done():
		c.state.Store(int32(StateClosed))
		err = errors.New("write permit not available")
	}

	if err != nil {
		c.logger.Debug("quit not sent", "error", err)
	} else {
		timer := time.NewTimer(timeout)
		select {
		case r := <-quitCh:
			if r.err == nil && r.response.IsFailure() {
				c.logger.Warn("engine rejected quit", "message", r.response.Data)
			}
		case <-timer.C:
			c.logger.Warn("engine did not answer quit", "timeout", timeout)
		}
		timer.Stop()
	}

	c.store.fail(ErrEngineClosed)

	closeErr := c.closeTransport()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.reader.done:
	case <-timer.C:
		c.logger.Warn("reader did not stop", "timeout", timeout)
	}

	c.logger.Debug("console closed")
	if closeErr != nil {
		return NewTransportError("close", closeErr)
	}
	return nil
}
