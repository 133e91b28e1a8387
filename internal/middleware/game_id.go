package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ValidateGameID rejects requests whose :gameId is not a UUID before they
// reach the game lookup.
func ValidateGameID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}
		if _, err := uuid.Parse(gameID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "malformed game ID",
			})
		}

		return c.Next()
	}
}
