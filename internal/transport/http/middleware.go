package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"habithero-service/pkg/jwt"
)

const userIDKey = "user_id"

// AuthMiddleware validates the Bearer token and stores the user id in locals
func AuthMiddleware(tokenManager *jwt.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization token",
			})
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header",
			})
		}

		claims, err := tokenManager.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals(userIDKey, claims.UserID)
		return c.Next()
	}
}
