package repository

import (
	"context"
	"testing"

	"shopping-ledger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	ctx := context.Background()
	repo := NewReferenceRepository(pool, model.KindCategory, logger)

	t.Run("List on empty table", func(t *testing.T) {
		refs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("Create and read back", func(t *testing.T) {
		created, err := repo.Create(ctx, "Groceries")
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Groceries", created.Name)

		found, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, found)
	})

	t.Run("Duplicate name conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, "Groceries")
		assert.Equal(t, model.ErrConflict, err)
	})

	t.Run("Update renames", func(t *testing.T) {
		created, err := repo.Create(ctx, "Housheold")
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, "Household")
		require.NoError(t, err)
		assert.Equal(t, "Household", updated.Name)

		found, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Household", found.Name)
	})

	t.Run("Update to taken name conflicts", func(t *testing.T) {
		created, err := repo.Create(ctx, "Snacks")
		require.NoError(t, err)

		_, err = repo.Update(ctx, created.ID, "Groceries")
		assert.Equal(t, model.ErrConflict, err)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.Equal(t, model.ErrNotFound, err)

		_, err = repo.Update(ctx, 9999, "Anything")
		assert.Equal(t, model.ErrNotFound, err)

		err = repo.Delete(ctx, 9999)
		assert.Equal(t, model.ErrNotFound, err)
	})

	t.Run("Delete unreferenced row", func(t *testing.T) {
		created, err := repo.Create(ctx, "Transient")
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err = repo.GetByID(ctx, created.ID)
		assert.Equal(t, model.ErrNotFound, err)
	})
}

func TestReferenceRepository_DeleteProtected(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	ctx := context.Background()

	categories := NewReferenceRepository(pool, model.KindCategory, logger)
	units := NewReferenceRepository(pool, model.KindUnit, logger)
	products := NewProductRepository(pool, logger)

	category, err := categories.Create(ctx, "Dairy")
	require.NoError(t, err)
	unit, err := units.Create(ctx, "l")
	require.NoError(t, err)

	_, err = products.Create(ctx, "Whole Milk", category.ID, unit.ID, nil, nil)
	require.NoError(t, err)

	// A category referenced by a product must survive the delete attempt.
	err = categories.Delete(ctx, category.ID)
	assert.Equal(t, model.ErrProtected, err)

	found, err := categories.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dairy", found.Name)
}

func TestReferenceRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	ctx := context.Background()
	repo := NewReferenceRepository(pool, model.KindManufacturer, logger)

	t.Run("Creates when absent", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		ref, err := repo.GetOrCreate(ctx, tx, "Acme Foods")
		require.NoError(t, err)
		assert.NotZero(t, ref.ID)
		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("Resolves existing row to the same id", func(t *testing.T) {
		tx1, err := pool.Begin(ctx)
		require.NoError(t, err)
		first, err := repo.GetOrCreate(ctx, tx1, "Riverside Dairy")
		require.NoError(t, err)
		require.NoError(t, tx1.Commit(ctx))

		tx2, err := pool.Begin(ctx)
		require.NoError(t, err)
		second, err := repo.GetOrCreate(ctx, tx2, "Riverside Dairy")
		require.NoError(t, err)
		require.NoError(t, tx2.Commit(ctx))

		assert.Equal(t, first.ID, second.ID)

		refs, err := repo.List(ctx)
		require.NoError(t, err)
		names := 0
		for _, ref := range refs {
			if ref.Name == "Riverside Dairy" {
				names++
			}
		}
		assert.Equal(t, 1, names)
	})

	t.Run("Name matching is exact", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		lower, err := repo.GetOrCreate(ctx, tx, "acme foods")
		require.NoError(t, err)
		upper, err := repo.GetOrCreate(ctx, tx, "Acme Foods")
		require.NoError(t, err)

		assert.NotEqual(t, lower.ID, upper.ID)
		require.NoError(t, tx.Commit(ctx))
	})
}
