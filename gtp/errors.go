package gtp

import (
	"errors"
	"fmt"
)

// Sentinel errors for console operations.
var (
	// ErrEngineClosed indicates a command was submitted after Close.
	// No I/O is performed when this is returned.
	ErrEngineClosed = errors.New("gtp: engine closed")

	// ErrEngineTimedOut indicates no matching response arrived before the
	// deadline. The engine may still answer later.
	ErrEngineTimedOut = errors.New("gtp: command timed out")

	// ErrProtocolDesync indicates the engine sent a line that is not a
	// response. The stream can no longer be trusted.
	ErrProtocolDesync = errors.New("gtp: protocol desync")

	// ErrTransportFailure indicates the underlying byte stream failed.
	ErrTransportFailure = errors.New("gtp: transport failure")

	// ErrResign is returned by ParseGenMove when the engine resigned.
	ErrResign = errors.New("gtp: engine resigned")

	// ErrLineTooLong indicates a protocol line exceeded MaxLineLength.
	ErrLineTooLong = errors.New("gtp: line too long")
)

// ParseError represents an error that occurred while building or parsing
// commands, values or responses.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The invalid value that caused the error
	Message string // Additional context
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindInvalidCommand indicates a missing or malformed command name.
	ErrKindInvalidCommand ParseErrorKind = iota
	// ErrKindInvalidString indicates a string argument containing whitespace
	// or control characters.
	ErrKindInvalidString
	// ErrKindInvalidValue indicates an argument that cannot be encoded.
	ErrKindInvalidValue
	// ErrKindInvalidVertex indicates a malformed or out of range vertex.
	ErrKindInvalidVertex
	// ErrKindInvalidColor indicates an unknown color name.
	ErrKindInvalidColor
	// ErrKindInvalidBool indicates a boolean other than true/false.
	ErrKindInvalidBool
	// ErrKindMissingArgument indicates a required argument was not provided.
	ErrKindMissingArgument
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindInvalidCommand:
		return fmt.Sprintf("gtp: invalid command '%s'", e.Value)
	case ErrKindInvalidString:
		return fmt.Sprintf("gtp: invalid string '%s'", e.Value)
	case ErrKindInvalidValue:
		return fmt.Sprintf("gtp: invalid value '%s'", e.Value)
	case ErrKindInvalidVertex:
		return fmt.Sprintf("gtp: invalid vertex '%s'", e.Value)
	case ErrKindInvalidColor:
		return fmt.Sprintf("gtp: invalid color '%s'", e.Value)
	case ErrKindInvalidBool:
		return fmt.Sprintf("gtp: invalid boolean '%s'", e.Value)
	case ErrKindMissingArgument:
		return "gtp: " + e.Message
	default:
		return fmt.Sprintf("gtp: parse error: %s", e.Value)
	}
}

func newInvalidCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindInvalidCommand, Value: cmd}
}

func newInvalidStringError(s string) error {
	return &ParseError{Kind: ErrKindInvalidString, Value: s}
}

func newInvalidValueError(val string) error {
	return &ParseError{Kind: ErrKindInvalidValue, Value: val}
}

func newInvalidVertexError(v string) error {
	return &ParseError{Kind: ErrKindInvalidVertex, Value: v}
}

func newInvalidColorError(c string) error {
	return &ParseError{Kind: ErrKindInvalidColor, Value: c}
}

func newInvalidBoolError(b string) error {
	return &ParseError{Kind: ErrKindInvalidBool, Value: b}
}

func newMissingArgumentError(msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Message: msg}
}

// ProtocolError reports a line from the engine that is neither a success
// nor a failure response. It matches ErrProtocolDesync with errors.Is.
type ProtocolError struct {
	Line string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("gtp: protocol desync: unexpected line %q", e.Line)
}

// Is reports whether target is ErrProtocolDesync.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocolDesync
}

// TransportError represents a failure of the underlying byte stream.
// It matches ErrTransportFailure with errors.Is and unwraps to the cause.
type TransportError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gtp: transport %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("gtp: transport %s failed", e.Op)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrTransportFailure.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}

// NewTransportError creates a new transport error.
func NewTransportError(op string, cause error) error {
	return &TransportError{Op: op, Cause: cause}
}

// FailureError is the error form of a failure response, produced by
// Response.Err and the typed helpers that need a successful answer.
type FailureError struct {
	Command string
	Message string
}

// Error implements the error interface.
func (e *FailureError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("gtp: %s: %s", e.Command, e.Message)
	}
	return "gtp: " + e.Message
}
