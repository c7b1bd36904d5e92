package gtp

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Value is a single command argument. The set of implementations is closed:
// Int, Float, String, Bool, Color, Vertex and Move.
type Value interface {
	// Format returns the wire form of the value.
	Format() string

	value()
}

// validator is implemented by values whose Go type admits states that cannot
// be put on the wire.
type validator interface {
	validate() error
}

// Int is a non-negative integer argument.
type Int uint

// Format renders the integer in base 10 without grouping.
func (i Int) Format() string { return strconv.FormatUint(uint64(i), 10) }

func (Int) value() {}

// Float is a decimal argument such as a komi value.
type Float float64

// Format renders the float with '.' as the decimal separator, no exponent and
// the fewest digits that round-trip.
func (f Float) Format() string { return strconv.FormatFloat(float64(f), 'f', -1, 64) }

func (Float) value() {}

func (f Float) validate() error {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return newInvalidValueError(strconv.FormatFloat(float64(f), 'g', -1, 64))
	}
	return nil
}

// Bool is a boolean argument.
type Bool bool

// Format renders "true" or "false".
func (b Bool) Format() string { return strconv.FormatBool(bool(b)) }

func (Bool) value() {}

// String is a single-token string argument. Build one with NewString; the
// zero value is not a valid argument.
type String struct {
	s string
}

// NewString validates s and wraps it as an argument. Empty strings and
// strings containing whitespace or control characters are rejected because
// the protocol uses spaces as argument delimiters.
func NewString(s string) (String, error) {
	if !isToken(s) {
		return String{}, newInvalidStringError(s)
	}
	return String{s: s}, nil
}

// MustString is like NewString but panics on invalid input.
func MustString(s string) String {
	v, err := NewString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Format returns the string unchanged.
func (s String) Format() string { return s.s }

func (String) value() {}

func (s String) validate() error {
	if !isToken(s.s) {
		return newInvalidStringError(s.s)
	}
	return nil
}

// isToken reports whether s is non-empty and free of whitespace and control
// characters.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}

// ParseBool parses a GTP boolean answer.
func ParseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, newInvalidBoolError(s)
	}
}
