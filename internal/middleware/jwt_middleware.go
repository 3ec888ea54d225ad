package middleware

import (
	"strings"

	"userhub/internal/response"
	"userhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// TokenHeader is the header the clients send the session token in.
const TokenHeader = "x-access-token"

// userIdxKey is the Locals key holding the verified user index.
const userIdxKey = "userIdx"

// TokenVerifier verifies session tokens.
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid session token.
// The token is read from the x-access-token header, or from a
// "Bearer <token>" Authorization header.
func AuthRequired(verifier TokenVerifier, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return deny(c, response.TokenEmpty)
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Path()).Msg("token verification failed")
			return deny(c, response.TokenVerificationError)
		}

		// Store the user index for subsequent handlers
		c.Locals(userIdxKey, claims.UserIdx)

		return c.Next()
	}
}

// UserIdx returns the user index stored by AuthRequired.
func UserIdx(c *fiber.Ctx) (int64, bool) {
	idx, ok := c.Locals(userIdxKey).(int64)
	return idx, ok
}

func tokenFromRequest(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(TokenHeader)); token != "" {
		return token
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func deny(c *fiber.Ctx, status response.Status) error {
	return c.Status(status.HTTPStatus()).JSON(response.New(status))
}
