package middleware

import (
	"errors"
	"strings"

	"matchmate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that checks for a valid bearer
// token. Missing headers and expired tokens are 401; a tampered or
// malformed token is 400. On success the claims are stored in the
// request's Locals as the caller identity.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token provided or invalid token format. Authorization denied.",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := authService.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Token expired. Please login again.",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid token. Authentication failed.",
			})
		}

		// Identity for downstream handlers.
		c.Locals("user_id", claims.ID)
		c.Locals("email", claims.Email)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}
