package gtp

import (
	"log/slog"
	"time"
)

// Options holds resolved configuration for a Console. NewConsole collapses
// functional options into this struct.
type Options struct {
	// Dialect selects id correlation or arrival-order matching.
	Dialect Dialect

	// CommandTimeout is the timeout used by Send and SendRaw.
	// Zero means wait until the engine answers or the console closes.
	CommandTimeout time.Duration

	// CloseTimeout bounds each of the waits performed by Close.
	CloseTimeout time.Duration

	// LineTerminator ends every request line.
	LineTerminator string

	// OrphanLimit is the number of unclaimed responses kept after their
	// senders gave up. Negative keeps all of them.
	OrphanLimit int

	// Logger receives diagnostic output. A session attribute is added.
	Logger *slog.Logger
}

// Option configures a Console.
type Option func(*Options)

// ResolveOptions applies functional options over the defaults and returns
// the resolved config.
func ResolveOptions(opts ...Option) Options {
	o := Options{
		Dialect:        DialectCorrelated,
		CloseTimeout:   CloseTimeout,
		LineTerminator: DefaultLineTerminator,
		OrphanLimit:    DefaultOrphanLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.LineTerminator == "" {
		o.LineTerminator = DefaultLineTerminator
	}
	if o.CloseTimeout <= 0 {
		o.CloseTimeout = CloseTimeout
	}
	return o
}

// WithDialect selects how responses are matched to requests.
func WithDialect(d Dialect) Option {
	return func(o *Options) {
		o.Dialect = d
	}
}

// WithCommandTimeout sets the default timeout for Send and SendRaw.
func WithCommandTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.CommandTimeout = d
	}
}

// WithCloseTimeout bounds how long Close waits for the quit answer and
// for the reader to stop.
func WithCloseTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.CloseTimeout = d
	}
}

// WithLineTerminator sets the request line terminator, "\n" or "\r\n".
func WithLineTerminator(t string) Option {
	return func(o *Options) {
		o.LineTerminator = t
	}
}

// WithOrphanLimit sets how many unclaimed responses are kept.
func WithOrphanLimit(n int) Option {
	return func(o *Options) {
		o.OrphanLimit = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
