package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

const ResolveCheckmate = "checkmate"

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	sent        uint64                     // newest state version written
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Game is the single owner of one Board. Every read and write of the board
// goes through the game's mutex.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	local       bool
	players     Seats
	promotion   *Position
	lastMove    *Move
	isCheck     bool
	resolve     *string
	winner      *Color
	version     uint64
	connections *GameConnections
}

// GameState is the snapshot sent to clients.
type GameState struct {
	ID              string    `json:"id"`
	Board           Grid      `json:"board"`
	Diagram         string    `json:"diagram"`
	ToMove          Color     `json:"toMove"`
	MoveHistory     []Move    `json:"moveHistory"`
	IsCheck         bool      `json:"isCheck"`
	Resolve         *string   `json:"resolve"`
	Winner          *Color    `json:"winner"`
	Local           bool      `json:"local"`
	Players         Seats     `json:"players"`
	PromotionSquare *Position `json:"promotionSquare"`
	LastMove        *Move     `json:"lastMove"`
	// Version grows with every change so clients can order snapshots.
	Version         uint64    `json:"version"`
}

func NewGame(id string) *Game {
	return NewGameWithBoard(id, NewBoard())
}

// NewGameWithBoard starts a game from an existing position, e.g. one decoded
// from FEN. The game takes ownership of board.
func NewGameWithBoard(id string, board *Board) *Game {
	g := &Game{
		ID:          id,
		board:       board,
		connections: NewGameConnections(),
	}
	g.updateStatus()
	return g
}

// SeatLocal gives both colors to one player for a hot-seat game.
func (g *Game) SeatLocal(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.ID != "" || g.players.Black.ID != "" {
		return ErrGameFull
	}
	g.players.White = ClientPlayer{ID: playerID, Color: PlayerColorWhite}
	g.players.Black = ClientPlayer{ID: playerID, Color: PlayerColorBlack}
	g.local = true
	return nil
}

// AddPlayer seats playerID on the first free color. A player who is already
// seated gets their color back.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("adding player %s to game %s", playerID, g.ID)

	switch colors := g.players.colorsOf(playerID); len(colors) {
	case 2:
		return PlayerColorBoth, nil
	case 1:
		return PlayerColor(colors[0]), nil
	}

	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: PlayerColorWhite}
		return PlayerColorWhite, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: PlayerColorBlack}
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return len(g.players.colorsOf(playerID)) > 0
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return !g.players.full()
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// Board returns a copy of the current board for read-only use such as
// notation export.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) snapshot() GameState {
	state := GameState{
		ID:          g.ID,
		Board:       g.board.Grid(),
		Diagram:     g.board.String(),
		ToMove:      g.board.CurrentPlayer(),
		MoveHistory: g.board.History(),
		IsCheck:     g.isCheck,
		Resolve:     g.resolve,
		Winner:      g.winner,
		Local:       g.local,
		Players:     g.players,
		Version:     g.version,
	}
	if g.promotion != nil {
		p := *g.promotion
		state.PromotionSquare = &p
	}
	if g.lastMove != nil {
		m := *g.lastMove
		state.LastMove = &m
	}
	return state
}

func (g *Game) PossibleMoves(pos Position) []Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.PossibleMoves(pos)
}

func (g *Game) MakeMove(playerID string, move Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("game %s: %s plays %s", g.ID, playerID, move)

	if g.resolve != nil {
		return ErrGameOver
	}
	if g.promotion != nil {
		return fmt.Errorf("%w on %s", ErrPromotionPending, g.promotion)
	}
	if !g.isPlayerInGame(playerID) {
		return ErrNotInGame
	}
	if !g.players.plays(playerID, g.board.CurrentPlayer()) {
		return ErrNotYourTurn
	}
	if !g.board.MakeMove(move) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, move)
	}

	g.lastMove = &move
	if pc, ok := g.board.PieceAt(move.To); ok && IsPromotionSquare(pc, move.To) {
		to := move.To
		g.promotion = &to
	}
	g.updateStatus()
	g.version++

	go g.broadcastState(g.snapshot())
	return nil
}

// Promote replaces the pawn that just reached the last row. Only the player
// who moved it may choose, and only a queen, rook, bishop or knight.
func (g *Game) Promote(playerID string, kind PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.promotion == nil {
		return ErrNoPromotionPending
	}
	if !kind.Promotable() {
		return fmt.Errorf("%w: %q", ErrInvalidPromotion, kind)
	}
	mover := g.board.CurrentPlayer().Opponent()
	if !g.isPlayerInGame(playerID) {
		return ErrNotInGame
	}
	if !g.players.plays(playerID, mover) {
		return ErrNotYourTurn
	}

	g.board.PromotePawn(*g.promotion, NewPiece(kind, mover))
	log.Debugf("game %s: pawn on %s promoted to %s", g.ID, g.promotion, kind)
	g.promotion = nil
	g.updateStatus()
	g.version++

	go g.broadcastState(g.snapshot())
	return nil
}

// Reset puts the board back to the starting position. Seats are kept.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) {
		return ErrNotInGame
	}
	g.board.Reset()
	g.promotion = nil
	g.lastMove = nil
	g.resolve = nil
	g.winner = nil
	g.updateStatus()
	g.version++
	log.Infof("game %s reset by %s", g.ID, playerID)

	go g.broadcastState(g.snapshot())
	return nil
}

// updateStatus recomputes check and checkmate for the side to move.
func (g *Game) updateStatus() {
	side := g.board.CurrentPlayer()
	g.isCheck = g.board.IsCheck(side)
	if g.isCheck && g.board.IsCheckmate(side) {
		result := ResolveCheckmate
		winner := side.Opponent()
		g.resolve = &result
		g.winner = &winner
		log.Infof("game %s: %s is checkmated", g.ID, side)
	}
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("%w: not authorized to watch game %s", ErrNotInGame, g.ID)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the duplicate
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection for %s", g.ID, playerID)

	// taken after the connection is visible so no newer broadcast can skip it
	state := g.State()
	go g.broadcastState(state)
	return nil
}

// UnregisterConnection forgets conn if it is still the player's current one.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Debugf("game %s: unregistered connection for %s", g.ID, playerID)
	}
}

// broadcastState pushes state to every open connection. Writes are
// serialised by the connections mutex; failed connections are dropped.
func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if !g.connections.current(state.Version) {
		log.Debugf("game %s: dropping stale state %d", g.ID, state.Version)
		return
	}
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("game %s: send state to %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}

// current reports whether a state with version may still be sent and records
// it as the newest. Callers hold gc.mu.
func (gc *GameConnections) current(version uint64) bool {
	if version < gc.sent {
		return false
	}
	gc.sent = version
	return true
}

// Send writes msg to conn, serialised with state broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return conn.WriteJSON(msg)
}
