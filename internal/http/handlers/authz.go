package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stockledger/internal/log"
	"stockledger/internal/services"
)

// APIKeyHeader carries the caller's key on mutating routes.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests whose key does not match. Dashboard forms may
// send the key as the api_key field instead of the header.
func RequireAPIKey(keys *services.APIKeyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !keys.Enabled() {
			return c.Next()
		}
		key := c.Get(APIKeyHeader)
		if key == "" {
			key = c.FormValue("api_key")
		}
		if err := keys.Check(key); err != nil {
			applog.Security(c, "access.denied.apikey", map[string]any{"present": key != ""})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid API key", "kind": "unauthorized", "status_code": fiber.StatusUnauthorized,
			})
		}
		return c.Next()
	}
}
