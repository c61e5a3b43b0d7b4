package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// Header is the request header carrying the API key.
	Header = "X-API-Key"
	// QueryParam is the query parameter accepted in place of the header.
	QueryParam = "api_key"
)

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected key. An empty key disables authentication.
	ApiKey string
	// Public lists path prefixes served without a key.
	Public []string
}

// DefaultPublic are the path prefixes left open when Config.Public is nil.
var DefaultPublic = []string{"/swagger", "/metrics"}

// New returns a middleware rejecting requests without the configured API key.
func New(cfg Config) fiber.Handler {
	public := cfg.Public
	if public == nil {
		public = DefaultPublic
	}
	expected := []byte(cfg.ApiKey)

	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		path := c.Path()
		for _, prefix := range public {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		key := c.Get(Header)
		if key == "" {
			key = c.Query(QueryParam)
		}
		if subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}
