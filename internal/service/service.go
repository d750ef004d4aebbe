package service

import (
	"context"

	"shopping-ledger/internal/model"
)

// ReferenceService defines operations over one reference-entity collection.
type ReferenceService interface {
	// Kind reports which reference collection this service manages.
	Kind() model.ReferenceKind

	List(ctx context.Context) ([]model.Reference, error)
	GetByID(ctx context.Context, id int64) (*model.Reference, error)
	Create(ctx context.Context, req *model.ReferenceRequest) (*model.Reference, error)
	Update(ctx context.Context, id int64, req *model.ReferenceRequest) (*model.Reference, error)
	Delete(ctx context.Context, id int64) error
}

// StoreService defines operations for store management.
type StoreService interface {
	List(ctx context.Context) ([]model.Store, error)
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	Create(ctx context.Context, req *model.StoreRequest) (*model.Store, error)

	// Update replaces a store. With partial set, omitted fields keep their
	// current values.
	Update(ctx context.Context, id int64, req *model.StoreRequest, partial bool) (*model.Store, error)
	Delete(ctx context.Context, id int64) error
}

// ProductService defines operations for product management.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product. With partial set, omitted fields keep their
	// current values; an explicit null clears a nullable reference.
	Update(ctx context.Context, id int64, req *model.ProductRequest, partial bool) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

// RecordService defines operations for the shopping ledger. Create and full
// update run the ingestion cascade: every nested sub-object is resolved or
// created bottom-up before the record row is written.
type RecordService interface {
	List(ctx context.Context) ([]model.ShoppingRecord, error)
	GetByID(ctx context.Context, id int64) (*model.ShoppingRecord, error)
	Create(ctx context.Context, req *model.ShoppingRecordRequest) (*model.ShoppingRecord, error)
	Update(ctx context.Context, id int64, req *model.ShoppingRecordRequest, partial bool) (*model.ShoppingRecord, error)
	Delete(ctx context.Context, id int64) error
}

// AuthService defines credential verification and user lookup.
type AuthService interface {
	// Authenticate validates username/password credentials.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, id int64) (*model.User, error)
}
