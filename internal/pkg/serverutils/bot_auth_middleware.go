package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// BotAuthMiddleware guards the gateway-facing endpoints with the shared
// bearer token. Rejections happen before any conversation handling, so an
// unauthorized call never touches session state.
func BotAuthMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		supplied := authHeader[7:]
		if token == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}
		return ctx.Next()
	}
}
