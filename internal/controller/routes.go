package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-backend/internal/middleware"
)

func RegisterRoutes(app *fiber.App, gameController *GameController, wsController *WebSocketController) {
	id := middleware.ValidateGameID()

	// Set up WebSocket routes
	app.Get("/ws/game/:gameId",
		id,
		middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}),
	)

	// Set up REST routes
	gameRoutes := app.Group("/api/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", id, gameController.GetGameState)
	gameRoutes.Delete("/:gameId", id, gameController.DeleteGame)
	gameRoutes.Get("/:gameId/piece/:row/:col", id, gameController.GetPiece)
	gameRoutes.Get("/:gameId/moves/:row/:col", id, gameController.GetValidMoves)
	gameRoutes.Post("/:gameId/move", id, gameController.MakeMove)
	gameRoutes.Post("/:gameId/promote", id, gameController.Promote)
	gameRoutes.Post("/:gameId/promote/cancel", id, gameController.CancelPromotion)
	gameRoutes.Post("/:gameId/undo", id, gameController.Undo)
	gameRoutes.Post("/:gameId/reset", id, gameController.Reset)
}
