package auth

import "github.com/gofiber/fiber/v2"

// Header is the API key request header.
const Header = "X-API-Key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the expected key. Empty disables authentication.
	ApiKey string
}

// New creates a middleware that rejects requests lacking the configured
// API key. With no key configured, every request passes.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}

		if c.Get(Header) != cfg.ApiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}
		return c.Next()
	}
}
