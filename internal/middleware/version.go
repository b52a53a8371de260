package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/openfra/fieldsync/internal/types"
)

// VersionMiddleware parses the X-Api-Version header and stores it in context.
// Requests pinned to an unsupported major version are rejected before they
// reach a handler.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Support version aliases
		if version == "1.0" {
			version = "1.0.0"
		}

		if !strings.HasPrefix(version, "1.") {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: "Unsupported API version: " + version,
				Type:    "api.version",
			}
		}

		// Store version in context
		c.Locals("apiVersion", version)

		return c.Next()
	}
}
