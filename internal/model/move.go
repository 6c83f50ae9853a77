package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a square on the board. X is the file (0 = a) and Y is the row
// counted from Black's side (0 = rank 8, 7 = rank 1). Values outside 0..7
// cannot be constructed.
type Position struct {
	x int
	y int
}

func NewPosition(x, y int) (Position, error) {
	if !inBounds(x, y) {
		return Position{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return Position{x: x, y: y}, nil
}

// MustPosition is NewPosition for coordinates known to be valid.
func MustPosition(x, y int) Position {
	p, err := NewPosition(x, y)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseSquare reads a square name such as "e2".
func ParseSquare(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: square %q", ErrOutOfBounds, s)
	}
	return NewPosition(int(s[0])-'a', 8-(int(s[1])-'0'))
}

func (p Position) X() int { return p.x }
func (p Position) Y() int { return p.y }

// String returns the square name, e.g. "e2".
func (p Position) String() string {
	return fmt.Sprintf("%c%d", p.x+'a', 8-p.y)
}

type positionJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{X: p.x, Y: p.y})
}

// UnmarshalJSON accepts either {"x":4,"y":6} or a square name like "e2".
func (p *Position) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		pos, err := ParseSquare(name)
		if err != nil {
			return err
		}
		*p = pos
		return nil
	}
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pos, err := NewPosition(raw.X, raw.Y)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

func inBounds(x, y int) bool {
	return x >= 0 && x < 8 && y >= 0 && y < 8
}

// Move is an ordered pair of squares. Whether it is playable is a question
// for the Board.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func NewMove(from, to Position) Move {
	return Move{From: from, To: to}
}

// UnmarshalJSON requires both squares; a missing or null end is rejected
// rather than read as a8.
func (m *Move) UnmarshalJSON(data []byte) error {
	var raw struct {
		From *Position `json:"from"`
		To   *Position `json:"to"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.From == nil || raw.To == nil {
		return fmt.Errorf("%w: move needs both from and to", ErrOutOfBounds)
	}
	*m = Move{From: *raw.From, To: *raw.To}
	return nil
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}
