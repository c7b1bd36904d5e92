package gtp

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// lineReader drains the transport for the lifetime of a console. It groups
// lines into response blocks, decodes them and publishes them to the store
// in arrival order. It is the only reader of the transport.
//
// Any line that cannot start a response is fatal: the store is failed with a
// *ProtocolError and the reader stops, since nothing after it can be
// attributed safely.
type lineReader struct {
	scanner *bufio.Scanner
	store   *responseStore
	parser  *ResponseParser
	dialect Dialect
	logger  *slog.Logger

	// closing reports whether the console started an orderly shutdown, in
	// which case end of stream is expected.
	closing func() bool

	// nextSeq is the ordinal of the next response in the FIFO dialect. It
	// starts at the same value as the console's id counter.
	nextSeq int

	done chan struct{}
}

func newLineReader(r io.Reader, store *responseStore, dialect Dialect, firstID int, closing func() bool, logger *slog.Logger) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)
	return &lineReader{
		scanner: scanner,
		store:   store,
		parser:  NewResponseParser(),
		dialect: dialect,
		logger:  logger,
		closing: closing,
		nextSeq: firstID,
		done:    make(chan struct{}),
	}
}

// run reads until end of stream, a read error, or a protocol desync.
// Must be called exactly once.
func (lr *lineReader) run() {
	defer close(lr.done)

	var block []string
	for lr.scanner.Scan() {
		line := preprocessLine(lr.scanner.Text())

		// Only an empty line ends a response. Blank lines between
		// responses are skipped.
		if line == "" || (len(block) == 0 && strings.TrimSpace(line) == "") {
			if len(block) == 0 {
				continue
			}
			if !lr.dispatch(strings.Join(block, LineSeparator)) {
				return
			}
			block = block[:0]
			continue
		}

		if len(block) == 0 && !isResponseHeader(line) {
			lr.desync(&ProtocolError{Line: line})
			return
		}
		block = append(block, line)
	}

	err := lr.scanner.Err()
	if lr.closing() {
		lr.logger.Debug("reader stopped", "error", err)
		return
	}
	if err == nil {
		err = io.EOF
	}
	if errors.Is(err, bufio.ErrTooLong) {
		err = ErrLineTooLong
	}
	lr.logger.Error("engine stream ended", "error", err)
	lr.store.fail(NewTransportError("read", err))
}

// dispatch decodes one block and publishes it. It returns false when the
// block was fatal.
func (lr *lineReader) dispatch(block string) bool {
	parsed, err := lr.parser.Parse(block)
	if err != nil {
		lr.desync(err)
		return false
	}

	id := parsed.ID
	switch lr.dialect {
	case DialectFIFO:
		id = lr.nextSeq
		lr.nextSeq++
	default:
		if !parsed.HasID {
			lr.desync(&ProtocolError{Line: firstLine(block)})
			return false
		}
	}

	lr.logger.Debug("received", "id", id, "success", parsed.Response.IsSuccess(), "data", parsed.Response.Data)
	lr.store.publish(id, parsed.Response)
	return true
}

func (lr *lineReader) desync(err error) {
	if lr.closing() {
		lr.logger.Debug("ignoring output during shutdown", "error", err)
		return
	}
	lr.logger.Error("protocol desync", "error", err)
	lr.store.fail(err)
}

func isResponseHeader(line string) bool {
	return strings.HasPrefix(line, SuccessMarker) || strings.HasPrefix(line, FailureMarker)
}

func firstLine(block string) string {
	line, _, _ := strings.Cut(block, LineSeparator)
	return line
}
