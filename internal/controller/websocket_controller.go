package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

func playerIDOf(c *websocket.Conn) string {
	id, _ := c.Locals(middleware.PlayerIDKey).(string)
	return id
}

// HandleConnection serves /ws/game/:gameId until the client goes away.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := playerIDOf(c)
	log.Debugf("websocket opened: game %s, player %s", gameID, playerID)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("register connection: %v", err)
		c.WriteJSON(ws.NewError(err.Error()))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("websocket closed: game %s, player %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("parse error: %v", err)
			wsc.sendError(gameID, c, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("handle %s: %v", msg.Type, err)
			wsc.sendError(gameID, c, err.Error())
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypePromote:
		var req promoteRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		return wsc.gameService.Promote(gameID, playerID, req.Piece)

	case ws.MessageTypeReset:
		return wsc.gameService.Reset(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking serves /ws/matchmaking: it waits for the player's match
// and sends a single matchFound message.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := playerIDOf(c)

	ch := make(chan model.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event := <-ch:
		payload, err := json.Marshal(event)
		if err != nil {
			log.Errorf("marshal match event: %v", err)
			return
		}
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: payload}); err != nil {
			log.Warnf("send match to %s: %v", playerID, err)
		}
	case <-closed:
		wsc.gameService.LeaveMatchmaking(playerID)
		log.Debugf("matchmaking socket for %s closed before a match", playerID)
	}
}

func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, errorMsg string) {
	if err := wsc.gameService.SendError(gameID, c, errorMsg); err != nil {
		log.Warnf("send error message: %v", err)
	}
}
