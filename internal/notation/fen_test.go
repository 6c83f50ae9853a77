package notation

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/corentings/chess/v2"
	"github.com/google/go-cmp/cmp"
)

func move(t *testing.T, s string) model.Move {
	t.Helper()
	from, err := model.ParseSquare(s[:2])
	if err != nil {
		t.Fatal(err)
	}
	to, err := model.ParseSquare(s[2:])
	if err != nil {
		t.Fatal(err)
	}
	return model.NewMove(from, to)
}

func TestEncodeFEN(t *testing.T) {
	tests := []struct {
		name  string
		moves []string
		want  string
	}{
		{"start", nil, StartingFEN},
		{"after e4", []string{"e2e4"}, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1"},
		{"after e4 e5", []string{"e2e4", "e7e5"}, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w - - 0 2"},
		{"after Nf3", []string{"e2e4", "e7e5", "g1f3"}, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b - - 0 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := model.NewBoard()
			for _, m := range tt.moves {
				if !b.MakeMove(move(t, m)) {
					t.Fatalf("move %s rejected", m)
				}
			}
			if got := EncodeFEN(b); got != tt.want {
				t.Errorf("EncodeFEN = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeFEN(t *testing.T) {
	b, err := DecodeFEN(StartingFEN)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(model.NewBoard().Grid(), b.Grid()); diff != "" {
		t.Errorf("starting grid mismatch (-want +got):\n%s", diff)
	}
	if b.CurrentPlayer() != model.White {
		t.Errorf("to move = %s, want white", b.CurrentPlayer())
	}

	// castling and en passant fields are accepted and ignored
	b, err = DecodeFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	want := model.NewBoard()
	want.MakeMove(move(t, "e2e4"))
	if diff := cmp.Diff(want.Grid(), b.Grid()); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if b.CurrentPlayer() != model.Black {
		t.Errorf("to move = %s, want black", b.CurrentPlayer())
	}
	if !b.IsLegal(move(t, "e7e5")) {
		t.Error("decoded board rejects e7e5")
	}
}

func TestDecodeFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"garbage", "not a fen"},
		{"empty", ""},
		{"short placement", "rnbqkbnr/pppppppp/8 w - - 0 1"},
		{"two white kings", "K6k/8/8/8/8/8/8/K7 w - - 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFEN(tt.fen)
			if !errors.Is(err, ErrInvalidFEN) && !errors.Is(err, ErrKingCount) {
				t.Errorf("DecodeFEN(%q) error = %v, want ErrInvalidFEN or ErrKingCount", tt.fen, err)
			}
		})
	}
}

func TestSquareMapping(t *testing.T) {
	tests := []struct {
		name string
		sq   chess.Square
	}{
		{"a8", chess.A8},
		{"h1", chess.H1},
		{"e2", chess.E2},
		{"d5", chess.D5},
	}
	for _, tt := range tests {
		p, err := model.ParseSquare(tt.name)
		if err != nil {
			t.Fatal(err)
		}
		if got := Square(p); got != tt.sq {
			t.Errorf("Square(%s) = %s, want %s", tt.name, got, tt.sq)
		}
		if got := Position(tt.sq); got != p {
			t.Errorf("Position(%s) = %s, want %s", tt.sq, got, tt.name)
		}
	}
}

// referenceMoves lists the moves the chess library allows in fen, one entry
// per from/to pair so that promotion choices collapse into one move.
func referenceMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("reference FEN %q: %v", fen, err)
	}
	seen := map[string]bool{}
	out := []string{}
	valid := chess.NewGame(opt).Position().ValidMoves()
	for i := range valid {
		m := valid[i]
		key := m.S1().String() + m.S2().String()
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func engineMoves(b *model.Board) []string {
	out := []string{}
	for _, m := range b.LegalMoves(b.CurrentPlayer()) {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func TestLegalMovesMatchReference(t *testing.T) {
	fens := []string{
		StartingFEN,
		// pinned bishop
		"k3r3/8/8/8/8/8/4B3/4K3 w - - 0 1",
		// king boxed in on the back rank
		"4k3/8/8/8/8/8/6PP/q6K w - - 0 1",
		// queen and knights in the open
		"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w - - 0 1",
		// pawns about to promote on both sides
		"4k3/1P6/8/8/8/8/6p1/4K3 w - - 0 1",
		"4k3/1P6/8/8/8/8/6p1/4K3 b - - 0 1",
		// kings face each other
		"8/8/8/3k4/8/3K4/8/8 w - - 0 1",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			b, err := DecodeFEN(fen)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(referenceMoves(t, fen), engineMoves(b)); diff != "" {
				t.Errorf("legal moves mismatch (-reference +engine):\n%s", diff)
			}
		})
	}
}

// TestRandomGamesMatchReference plays random games on the engine and checks
// every position against the chess library. Pawns reaching the last row are
// promoted to queens so the positions stay valid FEN.
func TestRandomGamesMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for game := 0; game < 10; game++ {
		b := model.NewBoard()
		for ply := 0; ply < 80; ply++ {
			fen := EncodeFEN(b)
			if diff := cmp.Diff(referenceMoves(t, fen), engineMoves(b)); diff != "" {
				t.Fatalf("game %d ply %d %q mismatch (-reference +engine):\n%s", game, ply, fen, diff)
			}

			moves := b.LegalMoves(b.CurrentPlayer())
			if len(moves) == 0 {
				break
			}
			mover := b.CurrentPlayer()
			m := moves[rng.Intn(len(moves))]
			if !b.MakeMove(m) {
				t.Fatalf("game %d ply %d: MakeMove(%s) rejected", game, ply, m)
			}
			if pc, ok := b.PieceAt(m.To); ok && model.IsPromotionSquare(pc, m.To) {
				b.PromotePawn(m.To, model.NewPiece(model.Queen, mover))
			}
		}
	}
}

func TestCheckmateMatchesReference(t *testing.T) {
	b := model.NewBoard()
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if !b.MakeMove(move(t, m)) {
			t.Fatalf("move %s rejected", m)
		}
	}
	fen := EncodeFEN(b)
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	if got := chess.NewGame(opt).Method(); got != chess.Checkmate {
		t.Fatalf("reference method = %s, want checkmate", got)
	}
	if !b.IsCheckmate(model.White) {
		t.Error("engine does not see checkmate")
	}
}
