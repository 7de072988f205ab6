package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/token"
)

// BearerAuth validates the Authorization bearer token and stores the acting
// user ID and the raw credential in request locals. Verification failure is
// Unauthorized, never an internal error.
func BearerAuth(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", userID)
		c.Locals("bearer_token", tokenStr)
		return c.Next()
	}
}
