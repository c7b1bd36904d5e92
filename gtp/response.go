package gtp

import "strings"

// ResponseType represents the type of response from the engine.
type ResponseType int

const (
	// ResponseSuccess indicates a successful response.
	ResponseSuccess ResponseType = iota
	// ResponseFailure indicates the engine rejected the command.
	ResponseFailure
)

// Response represents a response to a GTP command. A failure response is
// normal control flow: the engine understood the request and refused it.
type Response struct {
	Type ResponseType
	Data string // The payload (for success) or error message (for failure)
}

// NewSuccessResponse creates a successful response with the given data.
func NewSuccessResponse(data string) Response {
	return Response{Type: ResponseSuccess, Data: data}
}

// NewFailureResponse creates a failure response with the given message.
func NewFailureResponse(message string) Response {
	return Response{Type: ResponseFailure, Data: message}
}

// NewMultiLineResponse creates a successful response from multiple lines.
// Lines are joined using LineSeparator.
func NewMultiLineResponse(lines []string) Response {
	return Response{
		Type: ResponseSuccess,
		Data: strings.Join(lines, LineSeparator),
	}
}

// IsSuccess returns true if this is a successful response.
func (r Response) IsSuccess() bool {
	return r.Type == ResponseSuccess
}

// IsFailure returns true if this is a failure response.
func (r Response) IsFailure() bool {
	return r.Type == ResponseFailure
}

// Err returns nil for a success and a *FailureError carrying the message for
// a failure.
func (r Response) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &FailureError{Message: r.Data}
}

// Format returns the response formatted for transmission, without id and
// without the terminating empty line. Each payload line keeps its own line.
func (r Response) Format() string {
	marker := SuccessMarker
	if r.Type == ResponseFailure {
		marker = FailureMarker
	}
	if r.Data == "" {
		return marker
	}
	return marker + " " + r.Data
}

// Lines returns the response data split by the line separator.
// Useful for multi-line answers like showboard or list_commands.
func (r Response) Lines() []string {
	if r.Data == "" {
		return nil
	}
	return strings.Split(r.Data, LineSeparator)
}
