package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func play(t *testing.T, g *Game, playerID string, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if err := g.MakeMove(playerID, mv(t, m[:2], m[2:])); err != nil {
			t.Fatalf("%s plays %s: %v", playerID, m, err)
		}
	}
}

func TestGameSeating(t *testing.T) {
	g := NewGame("seats")

	steps := []struct {
		player  string
		want    PlayerColor
		wantErr error
	}{
		{"alice", PlayerColorWhite, nil},
		{"bob", PlayerColorBlack, nil},
		{"carol", "", ErrGameFull},
		{"alice", PlayerColorWhite, nil},
		{"bob", PlayerColorBlack, nil},
	}
	for i, s := range steps {
		got, err := g.AddPlayer(s.player)
		if !errors.Is(err, s.wantErr) {
			t.Fatalf("step %d: AddPlayer(%s) error = %v, want %v", i, s.player, err, s.wantErr)
		}
		if got != s.want {
			t.Errorf("step %d: AddPlayer(%s) = %q, want %q", i, s.player, got, s.want)
		}
	}

	want := Seats{
		White: ClientPlayer{ID: "alice", Color: PlayerColorWhite},
		Black: ClientPlayer{ID: "bob", Color: PlayerColorBlack},
	}
	if diff := cmp.Diff(want, g.State().Players); diff != "" {
		t.Errorf("seats mismatch (-want +got):\n%s", diff)
	}
	if g.CanSpectate() {
		t.Error("full game still open")
	}
	if !g.IsPlayerInGame("bob") || g.IsPlayerInGame("carol") {
		t.Error("IsPlayerInGame disagrees with seats")
	}
}

func TestLocalGame(t *testing.T) {
	g := NewGame("local")
	if err := g.SeatLocal("solo"); err != nil {
		t.Fatal(err)
	}
	if err := g.SeatLocal("other"); !errors.Is(err, ErrGameFull) {
		t.Errorf("second SeatLocal error = %v, want ErrGameFull", err)
	}
	if c, err := g.AddPlayer("solo"); err != nil || c != PlayerColorBoth {
		t.Errorf("AddPlayer(solo) = %q, %v; want both", c, err)
	}
	if _, err := g.AddPlayer("other"); !errors.Is(err, ErrGameFull) {
		t.Errorf("AddPlayer(other) error = %v, want ErrGameFull", err)
	}

	play(t, g, "solo", "e2e4", "e7e5", "g1f3")

	state := g.State()
	if !state.Local {
		t.Error("state not marked local")
	}
	if state.ToMove != Black {
		t.Errorf("to move = %s, want black", state.ToMove)
	}
	if len(state.MoveHistory) != 3 {
		t.Errorf("history = %v", state.MoveHistory)
	}
}

func TestGameMoveErrors(t *testing.T) {
	g := NewGame("errors")
	g.AddPlayer("white")
	g.AddPlayer("black")

	tests := []struct {
		name    string
		player  string
		move    Move
		wantErr error
	}{
		{"black moves first", "black", mv(t, "e7", "e5"), ErrNotYourTurn},
		{"stranger", "carol", mv(t, "e2", "e4"), ErrNotInGame},
		{"illegal shape", "white", mv(t, "e2", "e5"), ErrIllegalMove},
		{"opponent piece", "white", mv(t, "e7", "e5"), ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.MakeMove(tt.player, tt.move); !errors.Is(err, tt.wantErr) {
				t.Errorf("MakeMove error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	play(t, g, "white", "e2e4")
	if err := g.MakeMove("white", mv(t, "d2", "d4")); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("second white move error = %v, want ErrNotYourTurn", err)
	}

	state := g.State()
	if state.LastMove == nil || state.LastMove.String() != "e2e4" {
		t.Errorf("last move = %v, want e2e4", state.LastMove)
	}
	if state.ToMove != Black {
		t.Errorf("to move = %s, want black", state.ToMove)
	}
}

func TestGamePromotion(t *testing.T) {
	board := boardOf(t, White, map[string]Piece{
		"a1": wk(),
		"h8": bk(),
		"b7": NewPiece(Pawn, White),
		"g2": NewPiece(Pawn, Black),
	})
	g := NewGameWithBoard("promo", board)
	g.AddPlayer("white")
	g.AddPlayer("black")

	if err := g.Promote("white", Queen); !errors.Is(err, ErrNoPromotionPending) {
		t.Fatalf("early Promote error = %v, want ErrNoPromotionPending", err)
	}

	play(t, g, "white", "b7b8")

	state := g.State()
	if state.PromotionSquare == nil || state.PromotionSquare.String() != "b8" {
		t.Fatalf("promotion square = %v, want b8", state.PromotionSquare)
	}
	if err := g.MakeMove("black", mv(t, "h8", "g8")); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("move during promotion error = %v, want ErrPromotionPending", err)
	}

	promoteErrs := []struct {
		player  string
		kind    PieceType
		wantErr error
	}{
		{"white", King, ErrInvalidPromotion},
		{"white", Pawn, ErrInvalidPromotion},
		{"white", PieceType("dragon"), ErrInvalidPromotion},
		{"black", Queen, ErrNotYourTurn},
		{"carol", Queen, ErrNotInGame},
	}
	for _, p := range promoteErrs {
		if err := g.Promote(p.player, p.kind); !errors.Is(err, p.wantErr) {
			t.Errorf("Promote(%s, %s) error = %v, want %v", p.player, p.kind, err, p.wantErr)
		}
	}

	if err := g.Promote("white", Queen); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	state = g.State()
	if pc := state.Board[0][1]; pc == nil || *pc != NewPiece(Queen, White) {
		t.Errorf("b8 = %v, want white queen", pc)
	}
	if state.PromotionSquare != nil {
		t.Errorf("promotion square still set: %v", state.PromotionSquare)
	}
	if !state.IsCheck {
		t.Error("queen on b8 should give check")
	}
	if state.Resolve != nil {
		t.Errorf("resolve = %v, want nil", *state.Resolve)
	}

	play(t, g, "black", "h8h7")
}

func TestBlackPromotion(t *testing.T) {
	board := boardOf(t, Black, map[string]Piece{
		"a8": bk(),
		"h3": wk(),
		"c2": NewPiece(Pawn, Black),
	})
	g := NewGameWithBoard("black-promo", board)
	g.SeatLocal("solo")

	play(t, g, "solo", "c2c1")
	if err := g.Promote("solo", Knight); err != nil {
		t.Fatal(err)
	}
	if pc := g.State().Board[7][2]; pc == nil || *pc != NewPiece(Knight, Black) {
		t.Errorf("c1 = %v, want black knight", pc)
	}
	if g.State().ToMove != White {
		t.Error("turn should stay with white after the promotion")
	}
}

func TestGameCheckmateAndReset(t *testing.T) {
	g := NewGame("mate")
	g.SeatLocal("solo")

	play(t, g, "solo", "f2f3", "e7e5", "g2g4", "d8h4")

	state := g.State()
	if state.Resolve == nil || *state.Resolve != ResolveCheckmate {
		t.Fatalf("resolve = %v, want checkmate", state.Resolve)
	}
	if state.Winner == nil || *state.Winner != Black {
		t.Fatalf("winner = %v, want black", state.Winner)
	}
	if !state.IsCheck {
		t.Error("isCheck = false")
	}
	if err := g.MakeMove("solo", mv(t, "a2", "a3")); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate error = %v, want ErrGameOver", err)
	}

	if err := g.Reset("stranger"); !errors.Is(err, ErrNotInGame) {
		t.Errorf("Reset by stranger error = %v, want ErrNotInGame", err)
	}
	if err := g.Reset("solo"); err != nil {
		t.Fatal(err)
	}

	state = g.State()
	if state.Resolve != nil || state.Winner != nil || state.IsCheck || state.LastMove != nil {
		t.Errorf("status not cleared: %+v", state)
	}
	if diff := cmp.Diff(NewBoard().Grid(), state.Board); diff != "" {
		t.Errorf("board not reset (-want +got):\n%s", diff)
	}
	if state.Players.White.ID != "solo" || !state.Local {
		t.Error("reset dropped the seats")
	}
	play(t, g, "solo", "e2e4")
}

func TestNewGameWithMatedBoard(t *testing.T) {
	board := boardOf(t, White, map[string]Piece{
		"h1": wk(),
		"g2": NewPiece(Pawn, White),
		"h2": NewPiece(Pawn, White),
		"a1": NewPiece(Queen, Black),
		"e8": bk(),
	})
	g := NewGameWithBoard("over", board)
	state := g.State()
	if state.Resolve == nil || state.Winner == nil || *state.Winner != Black {
		t.Errorf("mated start not resolved: resolve %v winner %v", state.Resolve, state.Winner)
	}
}

func TestGameBoardIsACopy(t *testing.T) {
	g := NewGame("copy")
	g.SeatLocal("solo")

	b := g.Board()
	b.MakeMove(mv(t, "e2", "e4"))

	if got := g.State().MoveHistory; len(got) != 0 {
		t.Errorf("game history changed through a copy: %v", got)
	}
}

func TestStateVersionGrows(t *testing.T) {
	board := boardOf(t, White, map[string]Piece{
		"a1": wk(),
		"h8": bk(),
		"b7": NewPiece(Pawn, White),
	})
	g := NewGameWithBoard("versions", board)
	g.SeatLocal("solo")

	versions := []uint64{g.State().Version}
	play(t, g, "solo", "b7b8")
	versions = append(versions, g.State().Version)
	if err := g.Promote("solo", Queen); err != nil {
		t.Fatal(err)
	}
	versions = append(versions, g.State().Version)
	if err := g.Reset("solo"); err != nil {
		t.Fatal(err)
	}
	versions = append(versions, g.State().Version)

	// rejected actions leave the version alone
	g.MakeMove("solo", mv(t, "e2", "e5"))
	g.Promote("solo", Queen)
	versions = append(versions, g.State().Version)

	if diff := cmp.Diff([]uint64{0, 1, 2, 3, 3}, versions); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestBroadcastDropsStaleStates(t *testing.T) {
	gc := NewGameConnections()

	steps := []struct {
		version uint64
		want    bool
	}{
		{0, true},
		{2, true},
		{1, false},
		{2, true},
		{3, true},
		{0, false},
	}
	for i, s := range steps {
		if got := gc.current(s.version); got != s.want {
			t.Errorf("step %d: current(%d) = %v, want %v", i, s.version, got, s.want)
		}
	}
}
