package model

import "strings"

// Board owns the grid, the side to move and the record of accepted moves.
// It is not safe for concurrent use; the Game that holds it serialises access.
type Board struct {
	grid          Grid
	currentPlayer Color
	history       []Move
}

// NewBoard returns a board in the standard starting position with White to
// move.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// NewBoardFromGrid returns a board holding an arbitrary position. The caller
// is expected to supply exactly one king per color.
func NewBoardFromGrid(grid Grid, toMove Color) *Board {
	return &Board{grid: grid, currentPlayer: toMove, history: make([]Move, 0)}
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func startingGrid() Grid {
	var g Grid
	for x := 0; x < 8; x++ {
		g[0][x] = &Piece{Type: backRank[x], Color: Black}
		g[1][x] = &Piece{Type: Pawn, Color: Black}
		g[6][x] = &Piece{Type: Pawn, Color: White}
		g[7][x] = &Piece{Type: backRank[x], Color: White}
	}
	return g
}

// Reset clears the board back to the starting position, White to move, and
// discards the history.
func (b *Board) Reset() {
	b.grid = startingGrid()
	b.currentPlayer = White
	b.history = make([]Move, 0)
}

func (b *Board) CurrentPlayer() Color {
	return b.currentPlayer
}

// History returns a copy of the accepted moves in the order they were played.
func (b *Board) History() []Move {
	out := make([]Move, len(b.history))
	copy(out, b.history)
	return out
}

// Grid returns a copy of the squares.
func (b *Board) Grid() Grid {
	return b.grid
}

func (b *Board) PieceAt(pos Position) (Piece, bool) {
	pc := b.grid.at(pos)
	if pc == nil {
		return Piece{}, false
	}
	return *pc, true
}

func (b *Board) KingPosition(color Color) (Position, bool) {
	return b.grid.kingPosition(color)
}

// PossibleMoves lists every legal move of the piece on pos. Destinations are
// scanned row by row from y=0, x=0 so the order is stable.
func (b *Board) PossibleMoves(pos Position) []Move {
	pc := b.grid.at(pos)
	if pc == nil {
		return []Move{}
	}
	return b.movesFor(pos, b.IsLegal)
}

// LegalMoves lists the moves that color could play if it were to move, in
// origin order then destination order.
func (b *Board) LegalMoves(color Color) []Move {
	moves := []Move{}
	legal := func(m Move) bool { return b.legalFor(m, color) }
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b.grid[y][x]; pc != nil && pc.Color == color {
				moves = append(moves, b.movesFor(Position{x: x, y: y}, legal)...)
			}
		}
	}
	return moves
}

func (b *Board) movesFor(from Position, legal func(Move) bool) []Move {
	moves := []Move{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m := Move{From: from, To: Position{x: x, y: y}}
			if legal(m) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// IsLegal reports whether move may be played now: the piece on move.From
// belongs to the side to move, the move fits the piece, and it does not leave
// the mover's king attacked.
func (b *Board) IsLegal(move Move) bool {
	return b.legalFor(move, b.currentPlayer)
}

func (b *Board) legalFor(move Move, color Color) bool {
	pc := b.grid.at(move.From)
	if pc == nil || pc.Color != color {
		return false
	}
	next := b.grid.apply(move)
	if next.inCheck(color) {
		return false
	}
	return b.grid.validShape(move)
}

// IsCheck reports whether the king of color is attacked by any opposing
// piece, regardless of whose turn it is.
func (b *Board) IsCheck(color Color) bool {
	return b.grid.inCheck(color)
}

// IsCheckmate reports whether color is in check and no move of any of its
// pieces gets the king out of it. The search is done for color whether or
// not it is the side to move.
func (b *Board) IsCheckmate(color Color) bool {
	if !b.IsCheck(color) {
		return false
	}
	for _, m := range b.LegalMoves(color) {
		next := b.grid.apply(m)
		if !next.inCheck(color) {
			return false
		}
	}
	return true
}

// MakeMove plays move if it is legal and hands the turn to the other side.
// It returns false and leaves the board untouched otherwise.
func (b *Board) MakeMove(move Move) bool {
	if !b.IsLegal(move) {
		return false
	}
	b.grid = b.grid.apply(move)
	b.history = append(b.history, move)
	b.currentPlayer = b.currentPlayer.Opponent()
	return true
}

// PromotePawn replaces whatever stands on pos with piece. Nothing is checked:
// callers invoke it right after a pawn move reaches the last row, with a
// piece of the mover's color. The turn and history are left alone.
func (b *Board) PromotePawn(pos Position, piece Piece) {
	pc := piece
	b.grid[pos.y][pos.x] = &pc
}

// IsPromotionSquare reports whether a pawn of piece's color standing on pos
// has reached the far row.
func IsPromotionSquare(piece Piece, pos Position) bool {
	if piece.Type != Pawn {
		return false
	}
	if piece.Color == White {
		return pos.y == 0
	}
	return pos.y == 7
}

// String draws the board with Unicode glyphs, row 0 first, "." for empty
// squares.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b.grid[y][x]; pc != nil {
				sb.WriteString(pc.Symbol())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Clone returns an independent board with the same position, side to move
// and history.
func (b *Board) Clone() *Board {
	return &Board{grid: b.grid, currentPlayer: b.currentPlayer, history: b.History()}
}
