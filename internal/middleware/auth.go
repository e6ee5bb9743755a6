package middleware

import (
	"fmt"
	"strings"

	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/types"
	"github.com/gofiber/fiber/v2"
)

// AuthUser validates the request's bearer token (or "token" cookie) and puts
// the authenticated user ID in the request context under "userID".
func AuthUser(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authorized, no token",
				Type:    "auth.user",
			}
		}

		userID, err := services.ParseToken(jwtSecret, token)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: fmt.Sprintf("Not authorized, token failed: %v", err),
				Type:    "auth.user",
			}
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// extractToken reads the token from the Authorization header or the cookie
func extractToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Cookies("token")
}
