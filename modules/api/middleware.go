package api

import (
	"log"
	"strings"

	"github.com/example/todo-service/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware validates the bearer session token on protected routes
// and stores the resolved identity in the request context. A missing
// header fails with "token required"; a present but invalid, expired or
// revoked token fails with "authentication failed".
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return failure(c, fiber.StatusBadRequest, "authentication token required")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return failure(c, fiber.StatusBadRequest, "authentication token required")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return failure(c, fiber.StatusBadRequest, "authentication token required")
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			// A rejected token is a 401; a failure to validate at all
			// (store or transport down) is internal.
			if strings.Contains(err.Error(), "token validation failed") {
				return failure(c, fiber.StatusUnauthorized, "authentication failed")
			}
			log.Printf("[api] Token validation error: %v", err)
			return failure(c, fiber.StatusInternalServerError, "an internal error occurred")
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}
