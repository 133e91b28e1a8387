package controller

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	logger := log.WithField("game", gameID)

	connID, err := wsc.gameService.RegisterConnection(gameID, c)
	if err != nil {
		logger.WithError(err).Warn("failed to register connection")
		c.WriteJSON(errorMessage(err))
		c.Close()
		return
	}
	logger = logger.WithField("conn", connID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.WithError(err).Debug("read error")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.WithError(err).Info("parse error")
			wsc.sendError(gameID, connID, fmt.Errorf("malformed message: %v", err))
			continue
		}

		if err := wsc.handleMessage(gameID, msg); err != nil {
			logger.WithError(err).WithField("type", msg.Type).Info("handle error")
			wsc.sendError(gameID, connID, err)
		}
	}

	wsc.gameService.UnregisterConnection(gameID, connID)
}

// handleMessage applies one client action. Successful actions reach every
// watcher through the game's state broadcast.
func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, _, err := wsc.gameService.HandleMove(gameID, move)
		return err

	case ws.MessageTypePromote:
		var req promoteRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		_, err := wsc.gameService.Promote(gameID, req.Kind)
		return err

	case ws.MessageTypeCancelPromotion:
		_, err := wsc.gameService.CancelPromotion(gameID)
		return err

	case ws.MessageTypeUndo:
		undone, _, err := wsc.gameService.Undo(gameID)
		if err != nil {
			return err
		}
		if !undone {
			return model.ErrNoHistory
		}
		return nil

	case ws.MessageTypeReset:
		_, err := wsc.gameService.Reset(gameID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID, connID string, err error) {
	if sendErr := wsc.gameService.SendTo(gameID, connID, errorMessage(err)); sendErr != nil {
		log.WithFields(log.Fields{"game": gameID, "conn": connID}).WithError(sendErr).Warn("failed to send error")
	}
}

func errorMessage(err error) ws.Message {
	reason := model.Reason(err)
	if reason == "unknown" {
		reason = ""
	}
	msg, _ := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{
		Error:  err.Error(),
		Reason: reason,
	})
	return msg
}
