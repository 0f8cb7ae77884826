package handlers

import (
	"scholarsync/internal/apperrors"
	"scholarsync/internal/middleware"
	"scholarsync/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cookie      middleware.SessionCookie
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// RegisterRoutes registers the authentication routes. session guards the
// routes that need a signed-in user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/profile", session, h.HandleProfile)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	user, token, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.cookie.Set(c, token)
	return respondUser(c, fiber.StatusCreated, "User registered successfully", user)
}

// HandleLogin handles user login and issues the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	user, token, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.cookie.Set(c, token)
	return respondUser(c, fiber.StatusOK, "User Logged In Successfully", user)
}

// HandleLogout clears the session cookie. It succeeds without a session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.cookie.Clear(c)
	return c.JSON(fiber.Map{
		"message": "Logged Out Successfully",
		"type":    TypeSuccess,
	})
}

// HandleProfile returns the signed-in user.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticatedError("Unauthorized, please login")
	}
	return respondUser(c, fiber.StatusOK, "User Profile Sent", user)
}
