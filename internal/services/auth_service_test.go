package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"scholarsync/internal/apperrors"
	"scholarsync/internal/models"
	"scholarsync/internal/repositories"
	"scholarsync/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(repo *MockUserRepository) (*services.AuthService, *services.TokenService) {
	tokens := services.NewTokenService(testSecret, time.Hour)
	return services.NewAuthService(repo, tokens), tokens
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s not found: %w", what, repositories.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, tokens := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "walter@school.edu").Return(nil, notFoundErr("user")).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			cost, err := bcrypt.Cost([]byte(u.Password))
			return err == nil && cost == services.PasswordCost &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")) == nil &&
				u.Role == models.RoleFaculty && u.Email == "walter@school.edu"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = "user-1"
		}).Return(nil).Once()

		user, token, err := authService.Register(ctx, services.RegisterInput{
			Name: "Walter White", Email: "  Walter@School.EDU ", Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, models.RoleFaculty, user.Role)

		subject, ok := tokens.Verify(token)
		assert.True(t, ok)
		assert.Equal(t, "user-1", subject)
		mockRepo.AssertExpectations(t)
	})

	t.Run("keeps explicit role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "admin@school.edu").Return(nil, notFoundErr("user")).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleAdmin
		})).Return(nil).Once()

		user, _, err := authService.Register(ctx, services.RegisterInput{
			Name: "Admin", Email: "admin@school.edu", Password: "secret123", Role: models.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		_, _, err := authService.Register(ctx, services.RegisterInput{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		fields := apperrors.FieldErrors(err)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		_, _, err := authService.Register(ctx, services.RegisterInput{
			Name: "Eve", Email: "eve@school.edu", Password: "secret123", Role: "student",
		})
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Contains(t, apperrors.FieldErrors(err), "role")
	})

	t.Run("email already registered", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "walter@school.edu").Return(&models.User{ID: "user-1"}, nil).Once()

		_, _, err := authService.Register(ctx, services.RegisterInput{
			Name: "Walter White", Email: "walter@school.edu", Password: "secret123",
		})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index race", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "walter@school.edu").Return(nil, notFoundErr("user")).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("failed to create user: %w", repositories.ErrDuplicateKey)).Once()

		_, _, err := authService.Register(ctx, services.RegisterInput{
			Name: "Walter White", Email: "walter@school.edu", Password: "secret123",
		})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: "user-1", Name: "Walter White", Email: "walter@school.edu", Password: string(hashedPassword), Role: models.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, tokens := newAuthService(mockRepo)
		mockRepo.On("GetByEmail", ctx, "walter@school.edu").Return(user, nil).Once()

		got, token, err := authService.Login(ctx, services.LoginInput{Email: "WALTER@school.edu", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		subject, ok := tokens.Verify(token)
		assert.True(t, ok)
		assert.Equal(t, user.ID, subject)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)
		mockRepo.On("GetByEmail", ctx, "walter@school.edu").Return(user, nil).Once()

		_, _, err := authService.Login(ctx, services.LoginInput{Email: "walter@school.edu", Password: "wrong"})
		assert.True(t, errors.Is(err, apperrors.ErrAuthentication))
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)
		mockRepo.On("GetByEmail", ctx, "nobody@school.edu").Return(nil, notFoundErr("user")).Once()

		_, _, err := authService.Login(ctx, services.LoginInput{Email: "nobody@school.edu", Password: "secret123"})
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	})

	t.Run("missing credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		_, _, err := authService.Login(ctx, services.LoginInput{Email: "walter@school.edu"})
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthService_ResolveSession(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, tokens := newAuthService(mockRepo)
		token, err := tokens.Issue("user-1")
		require.NoError(t, err)
		mockRepo.On("GetByID", ctx, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleFaculty}, nil).Once()

		user, err := authService.ResolveSession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		_, err := authService.ResolveSession(ctx, "tampered")
		assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("user deleted", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, tokens := newAuthService(mockRepo)
		token, err := tokens.Issue("user-1")
		require.NoError(t, err)
		mockRepo.On("GetByID", ctx, "user-1").Return(nil, notFoundErr("user")).Once()

		_, err = authService.ResolveSession(ctx, token)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	})

	t.Run("datastore failure", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, tokens := newAuthService(mockRepo)
		token, err := tokens.Issue("user-1")
		require.NoError(t, err)
		mockRepo.On("GetByID", ctx, "user-1").Return(nil, errors.New("connection refused")).Once()

		_, err = authService.ResolveSession(ctx, token)
		require.Error(t, err)
		assert.False(t, apperrors.IsKnown(err))
	})
}
