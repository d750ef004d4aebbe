package service

import (
	"context"
	"fmt"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// NUMERIC(10,3) leaves seven integer digits for the quantity.
const quantityMaxIntDigits = 7

// recordService implements RecordService. Create and full update run the
// ingestion cascade: the nested store and product payloads are resolved
// bottom-up inside one transaction, and the record row is only written once
// every reference has resolved.
type recordService struct {
	recordRepo       repository.RecordRepository
	storeRepo        repository.StoreRepository
	productRepo      repository.ProductRepository
	categoryRepo     repository.ReferenceRepository
	unitRepo         repository.ReferenceRepository
	manufacturerRepo repository.ReferenceRepository
	originRepo       repository.ReferenceRepository
	validate         *validator.Validate
	logger           zerolog.Logger
}

// NewRecordService creates a new shopping-record service.
func NewRecordService(
	recordRepo repository.RecordRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.ReferenceRepository,
	unitRepo repository.ReferenceRepository,
	manufacturerRepo repository.ReferenceRepository,
	originRepo repository.ReferenceRepository,
	logger zerolog.Logger,
) RecordService {
	return &recordService{
		recordRepo:       recordRepo,
		storeRepo:        storeRepo,
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		unitRepo:         unitRepo,
		manufacturerRepo: manufacturerRepo,
		originRepo:       originRepo,
		validate:         validator.New(),
		logger:           logger.With().Str("service", "record").Logger(),
	}
}

func (s *recordService) List(ctx context.Context) ([]model.ShoppingRecord, error) {
	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if records == nil {
		records = []model.ShoppingRecord{}
	}
	return records, nil
}

func (s *recordService) GetByID(ctx context.Context, id int64) (*model.ShoppingRecord, error) {
	return s.recordRepo.GetByID(ctx, id)
}

// Create runs the ingestion cascade and inserts a new record. Records are
// never deduplicated: every submission yields a new row, while the nested
// sub-objects are resolved against existing rows by natural key.
func (s *recordService) Create(ctx context.Context, req *model.ShoppingRecordRequest) (*model.ShoppingRecord, error) {
	if err := s.validateRequest(req, false); err != nil {
		return nil, err
	}

	tx, err := s.recordRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	resolved, err := s.resolve(ctx, tx, req.Store, req.Product)
	if err != nil {
		return nil, err
	}

	var id int64
	id, err = s.recordRepo.Insert(ctx, tx, *req.Price, *req.PurchaseDate, *req.Quantity, resolved.store.ID, resolved.product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	s.logger.Info().
		Int64("record_id", id).
		Int64("store_id", resolved.store.ID).
		Int64("product_id", resolved.product.ID).
		Msg("record created")

	return &model.ShoppingRecord{
		ID:           id,
		Price:        *req.Price,
		PurchaseDate: *req.PurchaseDate,
		Quantity:     *req.Quantity,
		Store:        *resolved.store,
		Product:      *resolved.product,
	}, nil
}

// Update replaces the scalar fields and reassigns the store and product
// references. Supplied nested payloads are re-resolved through the cascade;
// the rows previously referenced are never mutated in place.
func (s *recordService) Update(ctx context.Context, id int64, req *model.ShoppingRecordRequest, partial bool) (*model.ShoppingRecord, error) {
	if err := s.validateRequest(req, partial); err != nil {
		return nil, err
	}

	current, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price := current.Price
	if req.Price != nil {
		price = *req.Price
	}
	purchaseDate := current.PurchaseDate
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}
	quantity := current.Quantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	tx, err := s.recordRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	store := &current.Store
	product := &current.Product
	if req.Store != nil || req.Product != nil {
		var resolved *resolvedRefs
		resolved, err = s.resolve(ctx, tx, req.Store, req.Product)
		if err != nil {
			return nil, err
		}
		if resolved.store != nil {
			store = resolved.store
		}
		if resolved.product != nil {
			product = resolved.product
		}
	}

	if err = s.recordRepo.Update(ctx, tx, id, price, purchaseDate, quantity, store.ID, product.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	return &model.ShoppingRecord{
		ID:           id,
		Price:        price,
		PurchaseDate: purchaseDate,
		Quantity:     quantity,
		Store:        *store,
		Product:      *product,
	}, nil
}

func (s *recordService) Delete(ctx context.Context, id int64) error {
	if err := s.recordRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("record_id", id).Msg("record deleted")
	return nil
}

// resolvedRefs carries the rows the cascade resolved, fully expanded so the
// response can mirror the input shape without re-reading.
type resolvedRefs struct {
	store   *model.Store
	product *model.Product
}

// resolve walks the nested payloads strictly bottom-up: store, then the
// product's references (category, unit, optional manufacturer and origin),
// then the product itself. Either payload may be nil during a partial update.
func (s *recordService) resolve(ctx context.Context, tx pgx.Tx, storePayload *model.StorePayload, productPayload *model.ProductPayload) (*resolvedRefs, error) {
	resolved := &resolvedRefs{}

	if storePayload != nil {
		store, err := s.storeRepo.GetOrCreate(ctx, tx, storePayload.Name, storePayload.Location)
		if err != nil {
			return nil, err
		}
		resolved.store = store
	}

	if productPayload != nil {
		category, err := s.categoryRepo.GetOrCreate(ctx, tx, productPayload.Category.Name)
		if err != nil {
			return nil, err
		}

		unit, err := s.unitRepo.GetOrCreate(ctx, tx, productPayload.Unit.Name)
		if err != nil {
			return nil, err
		}

		// Absent manufacturer/origin stay null; they are not empty-string rows.
		var manufacturer, origin *model.Reference
		if productPayload.Manufacturer != nil {
			manufacturer, err = s.manufacturerRepo.GetOrCreate(ctx, tx, productPayload.Manufacturer.Name)
			if err != nil {
				return nil, err
			}
		}
		if productPayload.Origin != nil {
			origin, err = s.originRepo.GetOrCreate(ctx, tx, productPayload.Origin.Name)
			if err != nil {
				return nil, err
			}
		}

		var manufacturerID, originID *int64
		if manufacturer != nil {
			manufacturerID = &manufacturer.ID
		}
		if origin != nil {
			originID = &origin.ID
		}

		productID, err := s.productRepo.GetOrCreate(ctx, tx, productPayload.Name, category.ID, unit.ID, manufacturerID, originID)
		if err != nil {
			return nil, err
		}

		resolved.product = &model.Product{
			ID:           productID,
			Name:         productPayload.Name,
			Category:     *category,
			Unit:         *unit,
			Manufacturer: manufacturer,
			Origin:       origin,
		}
	}

	return resolved, nil
}

func (s *recordService) validateRequest(req *model.ShoppingRecordRequest, partial bool) error {
	if req == nil {
		return model.NewValidationError(map[string]string{"body": "request body is required"})
	}

	fields := make(map[string]string)

	if !partial {
		if req.Price == nil {
			fields["price"] = "this field is required"
		}
		if req.PurchaseDate == nil {
			fields["purchase_date"] = "this field is required"
		}
		if req.Quantity == nil {
			fields["quantity"] = "this field is required"
		}
		if req.Store == nil {
			fields["store"] = "this field is required"
		}
		if req.Product == nil {
			fields["product"] = "this field is required"
		}
	}

	if req.Quantity != nil && !validQuantity(*req.Quantity) {
		fields["quantity"] = "must have at most 10 digits and 3 decimal places"
	}

	if req.Store != nil {
		if err := s.validate.Struct(req.Store); err != nil {
			collectFieldErrors(fields, err, "store")
		}
	}
	if req.Product != nil {
		if err := s.validate.Struct(req.Product); err != nil {
			collectFieldErrors(fields, err, "product")
		}
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}

// validQuantity checks the NUMERIC(10,3) bounds: at most three decimal
// places and at most seven integer digits.
func validQuantity(q decimal.Decimal) bool {
	if !q.Equal(q.Round(3)) {
		return false
	}
	return q.Abs().LessThan(decimal.New(1, quantityMaxIntDigits))
}
