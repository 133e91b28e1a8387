package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid WebSocket connection attempts.
// It runs after ValidateGameID, so the game ID in locals is well formed.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// The connection context is different from the upgrade context, so
		// carry the ID across in locals.
		c.Locals("wsGameID", c.Params("gameId"))
		return c.Next()
	}
}
