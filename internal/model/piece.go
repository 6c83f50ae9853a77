package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Promotable reports whether a pawn may be replaced by a piece of this type.
func (p PieceType) Promotable() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is an immutable value. Replacing a piece on the board means storing a
// new value, never editing one in place.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func NewPiece(t PieceType, c Color) Piece {
	return Piece{Type: t, Color: c}
}

// Symbol returns the Unicode chess glyph for the piece.
func (p Piece) Symbol() string {
	white := p.Color == White
	switch p.Type {
	case Pawn:
		return pick(white, "♙", "♟")
	case Rook:
		return pick(white, "♖", "♜")
	case Knight:
		return pick(white, "♘", "♞")
	case Bishop:
		return pick(white, "♗", "♝")
	case Queen:
		return pick(white, "♕", "♛")
	case King:
		return pick(white, "♔", "♚")
	}
	return ""
}

func pick(white bool, w, b string) string {
	if white {
		return w
	}
	return b
}
