package service

import (
	"fmt"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type GameService struct {
	gameManager   *GameManager
	defaultBottom model.Color
}

func NewGameService(gameManager *GameManager, defaultBottom model.Color) *GameService {
	return &GameService{
		gameManager:   gameManager,
		defaultBottom: defaultBottom,
	}
}

// CreateGame starts a game with bottomColor on the lower rows, or the
// configured default when bottomColor is empty.
func (gs *GameService) CreateGame(bottomColor string) (model.Snapshot, error) {
	bottom := gs.defaultBottom
	if bottomColor != "" {
		var err error
		if bottom, err = model.ParseColor(bottomColor); err != nil {
			return model.Snapshot{}, err
		}
	}

	game, err := gs.gameManager.CreateGame(bottom)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to create game: %w", err)
	}

	return game.Snapshot(), nil
}

func (gs *GameService) GetGameState(gameID string) (model.Snapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return game.Snapshot(), nil
}

func (gs *GameService) GetPiece(gameID string, row, col int) (*model.Piece, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.Piece(row, col)
}

func (gs *GameService) ValidMoves(gameID string, sq model.Square) ([]model.Square, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.ValidMoves(sq)
}

func (gs *GameService) HandleMove(gameID string, move model.SimpleMove) (model.MoveStatus, model.Snapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.MoveRejected, model.Snapshot{}, err
	}
	return game.Move(move.From, move.To)
}

func (gs *GameService) Promote(gameID string, kind model.PieceKind) (model.Snapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return game.Promote(kind)
}

func (gs *GameService) CancelPromotion(gameID string) (model.Snapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return game.CancelPromotion()
}

func (gs *GameService) Undo(gameID string) (bool, model.Snapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return false, model.Snapshot{}, err
	}
	return game.Undo()
}

func (gs *GameService) Reset(gameID string) (model.Snapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return game.Reset()
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.RemoveGame(gameID)
}

// RegisterConnection attaches conn to the game and returns the id used to
// detach it later.
func (gs *GameService) RegisterConnection(gameID string, conn *websocket.Conn) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	connID := uuid.New().String()
	game.RegisterConnection(connID, conn)
	return connID, nil
}

func (gs *GameService) UnregisterConnection(gameID string, connID string) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(connID)
}

func (gs *GameService) SendTo(gameID string, connID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(connID, msg)
}
