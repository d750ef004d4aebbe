package repository

import (
	"context"

	"shopping-ledger/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ReferenceRepository defines data access over one of the four single-name
// lookup tables (categories, units, manufacturers, origins).
type ReferenceRepository interface {
	// Kind reports which reference table this repository serves.
	Kind() model.ReferenceKind

	// List retrieves all rows ordered by id.
	List(ctx context.Context) ([]model.Reference, error)

	// GetByID retrieves a single row by its surrogate id.
	GetByID(ctx context.Context, id int64) (*model.Reference, error)

	// Create inserts a new row; a duplicate name yields model.ErrConflict.
	Create(ctx context.Context, name string) (*model.Reference, error)

	// Update renames a row; a duplicate name yields model.ErrConflict.
	Update(ctx context.Context, id int64, name string) (*model.Reference, error)

	// Delete removes a row; a still-referenced row yields model.ErrProtected.
	Delete(ctx context.Context, id int64) error

	// GetOrCreate resolves a row by exact name within the given transaction,
	// inserting it when absent. Idempotent under the name: concurrent calls
	// never produce duplicate rows.
	GetOrCreate(ctx context.Context, tx pgx.Tx, name string) (*model.Reference, error)
}

// StoreRepository defines data access for stores, keyed by (name, location).
type StoreRepository interface {
	List(ctx context.Context) ([]model.Store, error)
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	Create(ctx context.Context, name, location string) (*model.Store, error)
	Update(ctx context.Context, id int64, name, location string) (*model.Store, error)
	Delete(ctx context.Context, id int64) error

	// GetOrCreate resolves a store by the full (name, location) pair within
	// the given transaction, inserting it when absent.
	GetOrCreate(ctx context.Context, tx pgx.Tx, name, location string) (*model.Store, error)
}

// ProductRepository defines data access for products. Reads always expand the
// referenced rows; writes take resolved reference ids.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, name string, categoryID, unitID int64, manufacturerID, originID *int64) (*model.Product, error)
	Update(ctx context.Context, id int64, name string, categoryID, unitID int64, manufacturerID, originID *int64) (*model.Product, error)
	Delete(ctx context.Context, id int64) error

	// GetOrCreate resolves a product by its full natural key (name plus all
	// four reference ids, nullable ones matching on simultaneous absence)
	// within the given transaction, inserting it when absent.
	GetOrCreate(ctx context.Context, tx pgx.Tx, name string, categoryID, unitID int64, manufacturerID, originID *int64) (int64, error)
}

// RecordRepository defines data access for shopping records. Records are
// always inserted, never deduplicated.
type RecordRepository interface {
	// BeginTx starts the transaction the ingestion cascade runs in.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// List retrieves all records ordered by ascending purchase date, ties
	// broken by id.
	List(ctx context.Context) ([]model.ShoppingRecord, error)

	// GetByID retrieves a single record with its store and product expanded.
	GetByID(ctx context.Context, id int64) (*model.ShoppingRecord, error)

	// Insert adds a record within the provided transaction and returns its id.
	Insert(ctx context.Context, tx pgx.Tx, price int64, purchaseDate model.Date, quantity decimal.Decimal, storeID, productID int64) (int64, error)

	// Update replaces the scalar fields and reassigns the two foreign keys
	// within the provided transaction.
	Update(ctx context.Context, tx pgx.Tx, id, price int64, purchaseDate model.Date, quantity decimal.Decimal, storeID, productID int64) error

	Delete(ctx context.Context, id int64) error
}

// UserRepository defines data access for authentication principals.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)
}
