package repository

import (
	"context"
	"testing"

	"shopping-ledger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	ctx := context.Background()
	repo := NewUserRepository(pool, logger)

	t.Run("Create and find by username", func(t *testing.T) {
		created, err := repo.Create(ctx, "alex", "$2a$10$fakehashfortesting")
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		found, err := repo.FindByUsername(ctx, "alex")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "$2a$10$fakehashfortesting", found.PasswordHash)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, found.Username, byID.Username)
	})

	t.Run("Duplicate username conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, "alex", "$2a$10$anotherhash")
		assert.Equal(t, model.ErrConflict, err)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "nobody")
		assert.Equal(t, model.ErrNotFound, err)

		_, err = repo.GetByID(ctx, 9999)
		assert.Equal(t, model.ErrNotFound, err)
	})
}
