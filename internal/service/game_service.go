package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/notation"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGameOptions controls how a new game starts.
type CreateGameOptions struct {
	// Local seats the creator on both sides.
	Local bool `json:"local"`
	// FEN starts from the given position instead of the initial one.
	FEN string `json:"fen"`
}

// CreateGame starts a game and seats playerID in it. The creator plays White,
// or both colors for a local game.
func (gs *GameService) CreateGame(playerID string, opts CreateGameOptions) (string, model.PlayerColor, error) {
	board := model.NewBoard()
	if opts.FEN != "" {
		decoded, err := notation.DecodeFEN(opts.FEN)
		if err != nil {
			return "", "", fmt.Errorf("failed to create game: %w", err)
		}
		board = decoded
	}

	game := model.NewGameWithBoard(uuid.New().String(), board)
	if err := gs.gameManager.AddGame(game); err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}

	if opts.Local {
		if err := game.SeatLocal(playerID); err != nil {
			return "", "", fmt.Errorf("failed to seat local player: %w", err)
		}
		return game.ID, model.PlayerColorBoth, nil
	}
	color, err := game.AddPlayer(playerID)
	if err != nil {
		return "", "", fmt.Errorf("failed to seat creator: %w", err)
	}
	return game.ID, color, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// PossibleMoves lists the legal moves from the named square, e.g. "e2".
func (gs *GameService) PossibleMoves(gameID string, square string) ([]model.Move, error) {
	from, err := model.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.PossibleMoves(from), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.Move) error {
	if err := gs.gameManager.MakeMove(gameID, playerID, move); err != nil {
		return fmt.Errorf("move %s: %w", move, err)
	}
	return nil
}

func (gs *GameService) Promote(gameID string, playerID string, kind model.PieceType) error {
	if err := gs.gameManager.Promote(gameID, playerID, kind); err != nil {
		return fmt.Errorf("promote: %w", err)
	}
	return nil
}

func (gs *GameService) Reset(gameID string, playerID string) error {
	return gs.gameManager.Reset(gameID, playerID)
}

// FEN dumps the game's current position.
func (gs *GameService) FEN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return notation.EncodeFEN(game.Board()), nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}

// SendError reports a failure on a game's websocket without racing the
// state broadcasts.
func (gs *GameService) SendError(gameID string, conn *websocket.Conn, text string) error {
	return gs.gameManager.Send(gameID, conn, ws.NewError(text))
}
