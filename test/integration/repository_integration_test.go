package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/repository"
	"shopping-ledger/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordService(testDB *TestDB) service.RecordService {
	logger := zerolog.Nop()
	return service.NewRecordService(
		repository.NewRecordRepository(testDB.Pool, logger),
		repository.NewStoreRepository(testDB.Pool, logger),
		repository.NewProductRepository(testDB.Pool, logger),
		repository.NewReferenceRepository(testDB.Pool, model.KindCategory, logger),
		repository.NewReferenceRepository(testDB.Pool, model.KindUnit, logger),
		repository.NewReferenceRepository(testDB.Pool, model.KindManufacturer, logger),
		repository.NewReferenceRepository(testDB.Pool, model.KindOrigin, logger),
		logger,
	)
}

func cascadeRequest(date model.Date) *model.ShoppingRecordRequest {
	price := int64(249)
	quantity := decimal.RequireFromString("1.5")
	return &model.ShoppingRecordRequest{
		Price:        &price,
		PurchaseDate: &date,
		Quantity:     &quantity,
		Store:        &model.StorePayload{Name: "Aldi", Location: "Berlin"},
		Product: &model.ProductPayload{
			Name:         "Whole Milk",
			Category:     model.CategoryPayload{Name: "Dairy"},
			Unit:         model.UnitPayload{Name: "l"},
			Manufacturer: &model.ManufacturerPayload{Name: "Acme Foods"},
			Origin:       &model.OriginPayload{Name: "Germany"},
		},
	}
}

func TestIngestionCascade_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	svc := newRecordService(testDB)
	ctx := context.Background()

	t.Run("Creates the full graph from nothing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		record, err := svc.Create(ctx, cascadeRequest(model.NewDate(2024, time.March, 5)))
		require.NoError(t, err)

		var counts struct{ stores, categories, products, records int }
		row := testDB.Pool.QueryRow(ctx, `
			SELECT (SELECT COUNT(*) FROM stores),
			       (SELECT COUNT(*) FROM categories),
			       (SELECT COUNT(*) FROM products),
			       (SELECT COUNT(*) FROM shopping_records)
		`)
		require.NoError(t, row.Scan(&counts.stores, &counts.categories, &counts.products, &counts.records))

		assert.Equal(t, 1, counts.stores)
		assert.Equal(t, 1, counts.categories)
		assert.Equal(t, 1, counts.products)
		assert.Equal(t, 1, counts.records)
		assert.NotZero(t, record.Product.ID)
	})

	t.Run("Resubmission adds only a record row", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		first, err := svc.Create(ctx, cascadeRequest(model.NewDate(2024, time.March, 5)))
		require.NoError(t, err)
		second, err := svc.Create(ctx, cascadeRequest(model.NewDate(2024, time.March, 6)))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, first.Store.ID, second.Store.ID)
		assert.Equal(t, first.Product.ID, second.Product.ID)

		var products int
		require.NoError(t, testDB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&products))
		assert.Equal(t, 1, products)
	})

	t.Run("Concurrent submissions never duplicate sub-objects", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Create(ctx, cascadeRequest(model.NewDate(2024, time.March, 5)))
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			require.NoError(t, err, "worker %d", i)
		}

		var counts struct{ stores, products, records int }
		row := testDB.Pool.QueryRow(ctx, `
			SELECT (SELECT COUNT(*) FROM stores),
			       (SELECT COUNT(*) FROM products),
			       (SELECT COUNT(*) FROM shopping_records)
		`)
		require.NoError(t, row.Scan(&counts.stores, &counts.products, &counts.records))

		assert.Equal(t, 1, counts.stores)
		assert.Equal(t, 1, counts.products)
		assert.Equal(t, workers, counts.records)
	})

	t.Run("Update re-resolves a supplied product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created, err := svc.Create(ctx, cascadeRequest(model.NewDate(2024, time.March, 5)))
		require.NoError(t, err)

		req := &model.ShoppingRecordRequest{
			Product: &model.ProductPayload{
				Name:     "Oat Milk",
				Category: model.CategoryPayload{Name: "Dairy"},
				Unit:     model.UnitPayload{Name: "l"},
			},
		}

		updated, err := svc.Update(ctx, created.ID, req, true)
		require.NoError(t, err)

		assert.Equal(t, "Oat Milk", updated.Product.Name)
		assert.NotEqual(t, created.Product.ID, updated.Product.ID)
		// Category resolved to the existing row.
		assert.Equal(t, created.Product.Category.ID, updated.Product.Category.ID)
		// Scalars and store were not supplied, so they are unchanged.
		assert.Equal(t, created.Price, updated.Price)
		assert.Equal(t, created.Store, updated.Store)
	})
}
