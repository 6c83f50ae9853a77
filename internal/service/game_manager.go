// service/game_manager.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	pendingMatches   map[string]model.MatchFoundEvent
	interval         time.Duration
	mu               sync.RWMutex
}

func NewGameManager(interval time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		pendingMatches:   make(map[string]model.MatchFoundEvent),
		interval:         interval,
	}
}

// Run pairs waiting players on every tick until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context) {
	ticker := time.NewTicker(gm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("matchmaking loop stopped")
			return
		case <-ticker.C:
			for gm.pairWaitingPlayers() {
			}
		}
	}
}

// pairWaitingPlayers matches the two longest waiting players into a new game.
// It reports whether a pair was made.
func (gm *GameManager) pairWaitingPlayers() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.NextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: seat %s: %v", player1.ID, err)
		return false
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: seat %s: %v", player2.ID, err)
		return false
	}
	gm.games[gameID] = game
	log.Infof("matchmaking: %s (%s) vs %s (%s) in game %s", player1.ID, p1Color, player2.ID, p2Color, gameID)

	gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	return true
}

// notifyMatch hands the event to the player's channel, or keeps it until the
// player registers one. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	if ch, ok := gm.matchingChannels[playerID]; ok {
		select {
		case ch <- event:
			delete(gm.matchingChannels, playerID)
			return
		default:
			log.Warnf("matchmaking: channel for %s is full, keeping event", playerID)
		}
	}
	gm.pendingMatches[playerID] = event
}

// RegisterMatchmakingChannel sets the channel that receives the player's
// match. The caller owns ch and must give it room for one event.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if event, ok := gm.pendingMatches[playerID]; ok {
		select {
		case ch <- event:
			delete(gm.pendingMatches, playerID)
			return
		default:
		}
	}
	gm.matchingChannels[playerID] = ch
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.pendingMatches, playerID)
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

// AddGame registers game under its ID.
func (gm *GameManager) AddGame(game *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return fmt.Errorf("%w: %s", model.ErrGameExists, game.ID)
	}
	gm.games[game.ID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", model.ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, gameID)
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.Move) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Promote(gameID string, playerID string, kind model.PieceType) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Promote(playerID, kind)
}

func (gm *GameManager) Reset(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Reset(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(conn, msg)
}
