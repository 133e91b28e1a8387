package controller

import (
	"errors"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

type createRequest struct {
	BottomColor string `json:"bottomColor"`
}

type promoteRequest struct {
	Kind model.PieceKind `json:"kind"`
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// CreateGame accepts an optional {"bottomColor": "..."} body or ?bottom=
// query.
func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}
	if req.BottomColor == "" {
		req.BottomColor = c.Query("bottom")
	}

	state, err := gc.gameService.CreateGame(req.BottomColor)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": state.ID,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) GetPiece(c *fiber.Ctx) error {
	sq, err := squareParams(c)
	if err != nil {
		return badRequest(c, "row and col must be integers")
	}

	piece, err := gc.gameService.GetPiece(c.Params("gameId"), sq.Row, sq.Col)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"piece": piece})
}

func (gc *GameController) GetValidMoves(c *fiber.Ctx) error {
	sq, err := squareParams(c)
	if err != nil {
		return badRequest(c, "row and col must be integers")
	}

	moves, err := gc.gameService.ValidMoves(c.Params("gameId"), sq)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"from": sq, "moves": moves})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.SimpleMove
	if err := c.BodyParser(&move); err != nil {
		return badRequest(c, "invalid move")
	}

	status, state, err := gc.gameService.HandleMove(c.Params("gameId"), move)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": status,
		"state":  state,
	})
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid promotion")
	}

	state, err := gc.gameService.Promote(c.Params("gameId"), req.Kind)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) CancelPromotion(c *fiber.Ctx) error {
	state, err := gc.gameService.CancelPromotion(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

// Undo answers 200 with "undone": false when there is nothing to undo.
func (gc *GameController) Undo(c *fiber.Ctx) error {
	undone, state, err := gc.gameService.Undo(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	resp := fiber.Map{
		"undone": undone,
		"state":  state,
	}
	if !undone {
		resp["reason"] = model.Reason(model.ErrNoHistory)
	}
	return c.JSON(resp)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	state, err := gc.gameService.Reset(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func squareParams(c *fiber.Ctx) (model.Square, error) {
	row, err := c.ParamsInt("row")
	if err != nil {
		return model.Square{}, err
	}
	col, err := c.ParamsInt("col")
	if err != nil {
		return model.Square{}, err
	}
	return model.Square{Row: row, Col: col}, nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// fail maps an engine or lookup error to a status code. Rule rejections
// are 409 and carry the reason code.
func fail(c *fiber.Ctx, err error) error {
	status, reason := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.WithField("path", c.Path()).WithError(err).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error":  err.Error(),
		"reason": reason,
	})
}

func errorStatus(err error) (int, string) {
	if errors.Is(err, service.ErrGameNotFound) {
		return fiber.StatusNotFound, "not_found"
	}
	reason := model.Reason(err)
	switch reason {
	case "out_of_bounds", "invalid_promotion", "invalid_color":
		return fiber.StatusBadRequest, reason
	case "unknown":
		return fiber.StatusInternalServerError, reason
	}
	return fiber.StatusConflict, reason
}
