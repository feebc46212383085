package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"checkin-bot/internal/core/domain"
	"checkin-bot/internal/pkg/jwt"
	"checkin-bot/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LocalPrincipalID is the Locals key holding the authenticated operator id
const LocalPrincipalID = "principalID"

// WebhookSecretHeader carries the secret registered with setWebhook
const WebhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// RoleChecker answers tier checks against the directory
type RoleChecker interface {
	Role(id int64) domain.Role
	Require(id int64, min domain.Role) error
}

// AuthMiddleware validates the operator bearer token
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Fail(c, fiber.StatusUnauthorized, "Access token required")
		}
		accessToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if accessToken == "" {
			return response.Fail(c, fiber.StatusUnauthorized, "Access token required")
		}

		claims, err := jwt.ValidateOperatorToken(accessToken, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Fail(c, fiber.StatusUnauthorized, "Access token expired")
			}
			return response.Fail(c, fiber.StatusUnauthorized, "Invalid access token")
		}

		c.Locals(LocalPrincipalID, claims.PrincipalID)
		return c.Next()
	}
}

// RequireRole admits operators whose current directory role is at least min.
// The role is resolved per request so revocations apply without reissuing tokens.
func RequireRole(roles RoleChecker, min domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := c.Locals(LocalPrincipalID).(int64)
		if !ok {
			return response.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		if err := roles.Require(id, min); err != nil {
			return response.FromError(c, err)
		}
		c.Locals("role", roles.Role(id).String())
		return c.Next()
	}
}

// WebhookSecret rejects webhook calls without the configured secret token.
// An empty secret disables the check.
func WebhookSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		got := c.Get(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return response.Fail(c, fiber.StatusUnauthorized, "Invalid webhook secret")
		}
		return c.Next()
	}
}
