package middleware

import (
	"context"

	"scholarsync/internal/apperrors"
	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const userLocalsKey = "user"

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// SessionRequired is a Fiber middleware that loads the user behind the
// session cookie. A rejected session clears the cookie.
func SessionRequired(resolver SessionResolver, cookie SessionCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return apperrors.NewUnauthenticatedError("Unauthorized, please login")
		}

		user, err := resolver.ResolveSession(c.UserContext(), token)
		if err != nil {
			cookie.Clear(c)
			if apperrors.IsKnown(err) {
				return err
			}
			log.Error().Err(err).Str("path", c.Path()).Msg("session resolution failed")
			return apperrors.NewForbiddenError("Unauthorized Access")
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// RequireRoles is a Fiber middleware that only lets session users holding one
// of roles through. It must run after SessionRequired.
func RequireRoles(cookie SessionCookie, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthenticatedError("Unauthorized, please login")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		cookie.Clear(c)
		return apperrors.NewForbiddenError("Access Forbidden")
	}
}

// CurrentUser returns the user loaded by SessionRequired.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userLocalsKey).(*models.User)
	return user, ok && user != nil
}
