package repositories_test

import (
	"context"
	"errors"
	"testing"

	"scholarsync/internal/database/dbtest"
	"scholarsync/internal/models"
	"scholarsync/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{Name: "Walter White", Email: "walter@school.edu", Password: "hash", Role: models.RoleFaculty}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "walter@school.edu")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.Password)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Walter White", byID.Name)

	_, err = repo.GetByEmail(ctx, "nobody@school.edu")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	dup := &models.User{Name: "Heisenberg", Email: "walter@school.edu", Password: "hash", Role: models.RoleAdmin}
	err = repo.Create(ctx, dup)
	assert.True(t, errors.Is(err, repositories.ErrDuplicateKey))
}
