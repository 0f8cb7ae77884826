package database_test

import (
	"context"
	"testing"

	"scholarsync/internal/config"
	"scholarsync/internal/database"
	"scholarsync/internal/database/dbtest"
	"scholarsync/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigratesAndPings(t *testing.T) {
	db := dbtest.Open(t)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Student{}))
	assert.True(t, db.Migrator().HasColumn(&models.Student{}, "address_zip_code"))
	assert.True(t, db.Migrator().HasColumn(&models.User{}, "password"))
	assert.True(t, db.Migrator().HasColumn(&models.User{}, "role"))
	assert.NoError(t, database.Ping(context.Background(), db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DatabaseDriver: "mongodb", DatabaseDSN: "mongodb://localhost"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestPingFailsAfterClose(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.Close(db))

	assert.Error(t, database.Ping(context.Background(), db))
}
