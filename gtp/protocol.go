package gtp

import "time"

// Protocol constants.
const (
	// SuccessMarker starts every success response.
	SuccessMarker = "="

	// FailureMarker starts every failure response.
	FailureMarker = "?"

	// LineSeparator joins the lines of a multi-line payload.
	LineSeparator = "\n"

	// DefaultLineTerminator ends every request line unless the console is
	// configured otherwise.
	DefaultLineTerminator = "\n"

	// PassToken is the wire form of a pass move.
	PassToken = "pass"

	// ResignToken is what genmove answers when the engine gives up.
	ResignToken = "resign"

	// ColumnLetters lists the board columns in order. The letter I is not
	// used so that it cannot be confused with J or 1.
	ColumnLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

	// MaxBoardSize is the largest board GTP vertices can address.
	MaxBoardSize = len(ColumnLetters)

	// MaxLineLength is the maximum allowed length for a protocol line in bytes.
	MaxLineLength = 64 * 1024

	// CloseTimeout bounds how long Close waits for the quit answer and for
	// the reader to stop.
	CloseTimeout = 2 * time.Second

	// ConnectionTimeout is the timeout for establishing socket connections
	// when the caller's context has no deadline.
	ConnectionTimeout = 5 * time.Second

	// GracePeriod is how long a process transport waits for the engine to
	// exit on its own before signalling it.
	GracePeriod = 2 * time.Second

	// DefaultOrphanLimit is how many unclaimed responses the console keeps.
	DefaultOrphanLimit = 64

	// ProtocolVersion is the GTP version this package speaks.
	ProtocolVersion = "2"
)

// Dialect selects how responses are matched to requests.
type Dialect int

const (
	// DialectCorrelated prefixes every command with an id and matches the
	// id echoed by the engine.
	DialectCorrelated Dialect = iota

	// DialectFIFO sends bare commands and matches responses by arrival
	// order. Use it for engines that do not echo ids.
	DialectFIFO
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectCorrelated:
		return "correlated"
	case DialectFIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParseDialect parses a dialect name as printed by Dialect.String.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "correlated", "id", "":
		return DialectCorrelated, nil
	case "fifo", "ordered":
		return DialectFIFO, nil
	default:
		return 0, newInvalidValueError(s)
	}
}
