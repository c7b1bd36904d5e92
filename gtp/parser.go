package gtp

import (
	"strconv"
	"strings"
)

// CommandParser parses GTP commands from text lines, e.g. user input in a
// console or lines read from a script.
type CommandParser struct{}

// NewCommandParser creates a new command parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// ParseCommand parses line with a default CommandParser.
func ParseCommand(line string) (Command, error) {
	return NewCommandParser().Parse(line)
}

// Parse parses a command line into a Command. Comments starting with '#' are
// removed. A leading numeric id is dropped because the console assigns its
// own ids. Every argument becomes a String value.
func (p *CommandParser) Parse(line string) (Command, error) {
	if len(line) > MaxLineLength {
		return Command{}, ErrLineTooLong
	}

	commandLine := preprocessLine(line)
	if i := strings.IndexByte(commandLine, '#'); i >= 0 {
		commandLine = commandLine[:i]
	}

	fields := strings.Fields(commandLine)
	if len(fields) > 0 && isDigits(fields[0]) {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return Command{}, newInvalidCommandError(strings.TrimSpace(line))
	}

	args := make([]Value, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, String{s: f})
	}
	cmd := NewCommand(fields[0], args...)
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// preprocessLine applies the GTP input rules: carriage returns and other
// control characters are removed, horizontal tabs become spaces.
func preprocessLine(line string) string {
	clean := true
	for i := 0; i < len(line); i++ {
		if line[i] < 0x20 || line[i] == 0x7F {
			clean = false
			break
		}
	}
	if clean {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\t':
			b.WriteByte(' ')
		case c == '\n':
			b.WriteByte(c)
		case c < 0x20 || c == 0x7F:
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ResponseParser parses response blocks from the engine.
type ResponseParser struct{}

// NewResponseParser creates a new response parser.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// ParsedResponse is a decoded response block together with the id the
// engine echoed, if any.
type ParsedResponse struct {
	ID       int
	HasID    bool
	Response Response
}

// ParseResponse parses block with a default ResponseParser.
func ParseResponse(block string) (ParsedResponse, error) {
	return NewResponseParser().Parse(block)
}

// Parse decodes one response block: a header line starting with '=' or '?',
// an optional decimal id, a space and the first payload line, followed by
// any continuation lines. The terminating empty line must not be included.
// A header with any other shape is a *ProtocolError.
func (p *ResponseParser) Parse(block string) (ParsedResponse, error) {
	header, rest, multiLine := strings.Cut(block, LineSeparator)
	header = strings.TrimRight(header, "\r")

	var typ ResponseType
	switch {
	case strings.HasPrefix(header, SuccessMarker):
		typ = ResponseSuccess
	case strings.HasPrefix(header, FailureMarker):
		typ = ResponseFailure
	default:
		return ParsedResponse{}, &ProtocolError{Line: header}
	}

	var parsed ParsedResponse
	body := header[1:]

	digits := 0
	for digits < len(body) && body[digits] >= '0' && body[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		id, err := strconv.Atoi(body[:digits])
		if err != nil {
			return ParsedResponse{}, &ProtocolError{Line: header}
		}
		parsed.ID = id
		parsed.HasID = true
		body = body[digits:]
	}

	switch {
	case body == "":
	case body[0] == ' ':
		body = body[1:]
	default:
		return ParsedResponse{}, &ProtocolError{Line: header}
	}

	data := body
	if multiLine {
		data = body + LineSeparator + rest
	}

	parsed.Response = Response{Type: typ, Data: data}
	return parsed, nil
}
