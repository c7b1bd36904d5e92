package gtp

import (
	"strconv"
	"strings"
)

// Color is a player color.
type Color int

const (
	// Black is the first player.
	Black Color = iota
	// White is the second player.
	White
)

// Format renders "black" or "white".
func (c Color) Format() string {
	if c == White {
		return "white"
	}
	return "black"
}

// String returns the same text as Format.
func (c Color) String() string { return c.Format() }

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (Color) value() {}

func (c Color) validate() error {
	if c != Black && c != White {
		return newInvalidColorError(strconv.Itoa(int(c)))
	}
	return nil
}

// ParseColor accepts "b", "black", "w" and "white" in any letter case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	default:
		return 0, newInvalidColorError(s)
	}
}

// Vertex is a board coordinate or a pass. X counts columns from the left and
// Y counts rows from the bottom, both starting at 1.
type Vertex struct {
	X, Y int
	pass bool
}

// Pass is the pass vertex.
var Pass = Vertex{pass: true}

// Point returns the vertex at column x and row y. It does not check the
// range; NewPoint does.
func Point(x, y int) Vertex {
	return Vertex{X: x, Y: y}
}

// NewPoint returns the vertex at column x and row y, checking that both lie
// in 1..MaxBoardSize.
func NewPoint(x, y int) (Vertex, error) {
	v := Point(x, y)
	if err := v.validate(); err != nil {
		return Vertex{}, err
	}
	return v, nil
}

// IsPass reports whether v is the pass vertex.
func (v Vertex) IsPass() bool { return v.pass }

// Format renders "pass" or a column letter followed by the row, e.g. "D4".
// Column 9 is rendered as "J".
func (v Vertex) Format() string {
	if v.pass {
		return PassToken
	}
	if v.X < 1 || v.X > MaxBoardSize {
		return "?" + strconv.Itoa(v.Y)
	}
	return string(ColumnLetters[v.X-1]) + strconv.Itoa(v.Y)
}

// String returns the same text as Format.
func (v Vertex) String() string { return v.Format() }

func (Vertex) value() {}

func (v Vertex) validate() error {
	if v.pass {
		return nil
	}
	if v.X < 1 || v.X > MaxBoardSize || v.Y < 1 || v.Y > MaxBoardSize {
		return newInvalidVertexError(strconv.Itoa(v.X) + "," + strconv.Itoa(v.Y))
	}
	return nil
}

// ParseVertex parses "pass" or a letter+row coordinate in any letter case.
// It is the inverse of Vertex.Format.
func ParseVertex(s string) (Vertex, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, PassToken) {
		return Pass, nil
	}
	if len(trimmed) < 2 {
		return Vertex{}, newInvalidVertexError(s)
	}

	x := strings.IndexByte(ColumnLetters, upper(trimmed[0])) + 1
	if x == 0 {
		return Vertex{}, newInvalidVertexError(s)
	}

	digits := trimmed[1:]
	if digits[0] == '0' || digits[0] == '+' || digits[0] == '-' {
		return Vertex{}, newInvalidVertexError(s)
	}
	y, err := strconv.Atoi(digits)
	if err != nil || y < 1 || y > MaxBoardSize {
		return Vertex{}, newInvalidVertexError(s)
	}
	return Point(x, y), nil
}

// ParseVertices parses a whitespace-separated vertex list, as returned by
// place_free_handicap and final_status_list.
func ParseVertices(s string) ([]Vertex, error) {
	fields := strings.Fields(s)
	vertices := make([]Vertex, 0, len(fields))
	for _, f := range fields {
		v, err := ParseVertex(f)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// Move is a color together with a vertex, as taken by play.
type Move struct {
	Color  Color
	Vertex Vertex
}

// Format renders "<color> <vertex>".
func (m Move) Format() string {
	return m.Color.Format() + " " + m.Vertex.Format()
}

// String returns the same text as Format.
func (m Move) String() string { return m.Format() }

func (Move) value() {}

func (m Move) validate() error {
	if err := m.Color.validate(); err != nil {
		return err
	}
	return m.Vertex.validate()
}

// ParseMove parses "<color> <vertex>".
func ParseMove(s string) (Move, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Move{}, newMissingArgumentError("move requires a color and a vertex")
	}
	c, err := ParseColor(fields[0])
	if err != nil {
		return Move{}, err
	}
	v, err := ParseVertex(fields[1])
	if err != nil {
		return Move{}, err
	}
	return Move{Color: c, Vertex: v}, nil
}
