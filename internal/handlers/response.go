package handlers

import (
	"errors"

	"scholarsync/internal/apperrors"
	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Response types of the envelope.
const (
	TypeSuccess = "success"
	TypeError   = "error"
)

// Envelope wraps every student response.
type Envelope struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Data    interface{} `json:"data"`
}

// UserResponse is returned by the auth endpoints.
type UserResponse struct {
	Message string               `json:"message"`
	Type    string               `json:"type"`
	User    models.SanitizedUser `json:"user"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string            `json:"message"`
	Type    string            `json:"type"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{Message: message, Type: TypeSuccess, Data: data})
}

func respondUser(c *fiber.Ctx, status int, message string, user *models.User) error {
	return c.Status(status).JSON(UserResponse{Message: message, Type: TypeSuccess, User: user.Sanitize()})
}

// ErrorHandler renders errors returned by handlers and middleware. Errors
// outside the apperrors taxonomy are logged and reported as internal.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{Message: fiberErr.Message, Type: TypeError})
	}

	status := apperrors.StatusCode(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		message = "Internal server error"
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		Type:    TypeError,
		Errors:  apperrors.FieldErrors(err),
	})
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound, "Route not found")
}

func invalidBody(err error) error {
	log.Debug().Err(err).Msg("invalid request body")
	return apperrors.NewValidationError("Invalid request body", nil)
}
