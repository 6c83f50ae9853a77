// Package notation converts boards to and from Forsyth-Edwards Notation.
//
// The rule engine has no castling or en passant, so those FEN fields are
// written as "-" and ignored when read. The halfmove clock is always 0 and
// the fullmove number counts the moves played on the board being encoded.
package notation

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/corentings/chess/v2"
)

// StartingFEN is the standard initial position as written by EncodeFEN.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

var (
	ErrInvalidFEN = errors.New("invalid FEN")
	ErrKingCount  = errors.New("each side needs exactly one king")
)

var pieceTypes = map[model.PieceType]chess.PieceType{
	model.King:   chess.King,
	model.Queen:  chess.Queen,
	model.Rook:   chess.Rook,
	model.Bishop: chess.Bishop,
	model.Knight: chess.Knight,
	model.Pawn:   chess.Pawn,
}

func toChessPiece(p model.Piece) chess.Piece {
	c := chess.White
	if p.Color == model.Black {
		c = chess.Black
	}
	return chess.NewPiece(pieceTypes[p.Type], c)
}

func fromChessPiece(p chess.Piece) (model.Piece, bool) {
	for t, ct := range pieceTypes {
		if ct != p.Type() {
			continue
		}
		switch p.Color() {
		case chess.White:
			return model.NewPiece(t, model.White), true
		case chess.Black:
			return model.NewPiece(t, model.Black), true
		}
	}
	return model.Piece{}, false
}

// Square maps a board position to the library's square. Row 0 is rank 8.
func Square(p model.Position) chess.Square {
	return chess.NewSquare(chess.File(p.X()), chess.Rank(7-p.Y()))
}

// Position is the inverse of Square.
func Position(sq chess.Square) model.Position {
	return model.MustPosition(int(sq.File()), 7-int(sq.Rank()))
}

// EncodeFEN writes b as a FEN record.
func EncodeFEN(b *model.Board) string {
	grid := b.Grid()
	squares := map[chess.Square]chess.Piece{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := grid[y][x]; pc != nil {
				squares[Square(model.MustPosition(x, y))] = toChessPiece(*pc)
			}
		}
	}

	side := "w"
	if b.CurrentPlayer() == model.Black {
		side = "b"
	}
	fullmove := len(b.History())/2 + 1
	return fmt.Sprintf("%s %s - - 0 %d", chess.NewBoard(squares).String(), side, fullmove)
}

// DecodeFEN builds a board from a FEN record. The position must hold exactly
// one king of each color.
func DecodeFEN(fen string) (*model.Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidFEN, fen, err)
	}
	pos := chess.NewGame(opt).Position()

	var grid model.Grid
	kings := map[model.Color]int{}
	for sq, cp := range pos.Board().SquareMap() {
		pc, ok := fromChessPiece(cp)
		if !ok {
			return nil, fmt.Errorf("%w %q: unknown piece on %s", ErrInvalidFEN, fen, sq)
		}
		if pc.Type == model.King {
			kings[pc.Color]++
		}
		p := Position(sq)
		grid[p.Y()][p.X()] = &pc
	}
	if kings[model.White] != 1 || kings[model.Black] != 1 {
		return nil, fmt.Errorf("decode fen %q: %w", fen, ErrKingCount)
	}

	toMove := model.White
	if pos.Turn() == chess.Black {
		toMove = model.Black
	}
	return model.NewBoardFromGrid(grid, toMove), nil
}
