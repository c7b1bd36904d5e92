package gtp

import (
	"strconv"
	"strings"
)

// Command is a GTP command name with its ordered arguments.
// Use NewCommand or the constructor functions (NewBoardSizeCommand,
// NewPlayCommand, etc.) to create Command instances.
type Command struct {
	Name string
	Args []Value
}

// NewCommand creates a command with the given name and arguments.
func NewCommand(name string, args ...Value) Command {
	return Command{Name: name, Args: args}
}

// Validate checks that the command can be encoded on a single line. The
// name must be a single token that cannot be mistaken for an id, and every
// argument must be encodable.
func (c Command) Validate() error {
	if !isToken(c.Name) || isDigits(c.Name) {
		return newInvalidCommandError(c.Name)
	}
	for _, arg := range c.Args {
		if arg == nil {
			return newMissingArgumentError(c.Name + ": nil argument")
		}
		if v, ok := arg.(validator); ok {
			if err := v.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Format returns the command formatted for transmission over the protocol.
// This does not include an id or the trailing line terminator.
func (c Command) Format() string {
	var b strings.Builder
	c.appendTo(&b)
	return b.String()
}

// FormatWithID returns the command prefixed with the given id.
func (c Command) FormatWithID(id int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(id))
	b.WriteByte(' ')
	c.appendTo(&b)
	return b.String()
}

// FormatLine returns the command formatted as a complete protocol line with
// the default terminator and no id.
func (c Command) FormatLine() string {
	return c.Format() + DefaultLineTerminator
}

// String returns the same text as Format.
func (c Command) String() string { return c.Format() }

func (c Command) appendTo(b *strings.Builder) {
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg.Format())
	}
}

// encodeLine renders the request line the console writes. withID selects
// the correlated dialect.
func encodeLine(c Command, id int, withID bool, terminator string) string {
	var b strings.Builder
	if withID {
		b.WriteString(strconv.Itoa(id))
		b.WriteByte(' ')
	}
	c.appendTo(&b)
	b.WriteString(terminator)
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
