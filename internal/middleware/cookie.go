package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// SessionCookie writes and clears the session cookie.
type SessionCookie struct {
	Secure bool
	MaxAge time.Duration
}

// Set stores token in an http-only, same-site strict cookie.
func (s SessionCookie) Set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.MaxAge / time.Second),
		Expires:  time.Now().Add(s.MaxAge),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Clear expires the session cookie on the client.
func (s SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
