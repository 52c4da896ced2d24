package middleware

import (
	"errors"
	"strings"

	"campus-visitpass/internal/config"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/pkg/jwt"
	"campus-visitpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// identityKey is the c.Locals key carrying the authenticated caller
const identityKey = "identity"

// AuthMiddleware creates authentication middleware. The session token is
// read from the auth_token cookie, falling back to a Bearer header for
// non-browser clients.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("auth_token")

		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if token == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		claims, err := jwt.ValidateSessionToken(token, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Session expired")
			}
			return response.Unauthorized(c, "Invalid session")
		}

		c.Locals(identityKey, claims.Identity())
		return c.Next()
	}
}

// RequirePermission gates a route on a capability from the role
// permission table
func RequirePermission(perm domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity(c)
		if identity == nil {
			return response.Unauthorized(c, "Authentication required")
		}

		if !identity.Role.Can(perm) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// Identity returns the authenticated caller, or nil on unauthenticated
// routes
func Identity(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(identityKey).(*domain.Identity)
	return identity
}

// OptionalAuth sets the caller identity when a valid token is present but
// never rejects the request
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("auth_token")
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if token != "" {
			if claims, err := jwt.ValidateSessionToken(token, cfg.JWT.Secret); err == nil {
				c.Locals(identityKey, claims.Identity())
			}
		}

		return c.Next()
	}
}
