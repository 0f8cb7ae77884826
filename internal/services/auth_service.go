package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"scholarsync/internal/apperrors"
	"scholarsync/internal/models"
	"scholarsync/internal/repositories"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 12

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=faculty admin"`
}

// LoginInput is the payload accepted by Login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		validate: newValidator(),
	}
}

// Register creates a user account with a hashed password and returns it with
// a fresh session token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(s.validate, in, "Name, email and password are required"); err != nil {
		return nil, "", err
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, "", apperrors.NewConflictError("User already exists")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleFaculty
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, "", apperrors.NewConflictError("User already exists")
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh session token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(s.validate, in, "Email and password are required"); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", apperrors.NewNotFoundError("User does not exist. Please register")
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, "", apperrors.NewAuthenticationError("Passwords do not match")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResolveSession returns the user a session token belongs to. An invalid
// token is Unauthenticated. A token for a deleted user is NotFound rendered
// as 400. Other failures are returned unclassified.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	userID, ok := s.tokens.Verify(token)
	if !ok {
		return nil, apperrors.NewUnauthenticatedError("Invalid or expired session")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User Not Found").WithStatus(http.StatusBadRequest)
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
