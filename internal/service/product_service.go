package service

import (
	"context"
	"fmt"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	repo     repository.ProductRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := s.validateRequest(req, false); err != nil {
		return nil, err
	}

	product, err := s.repo.Create(ctx, *req.Name, *req.CategoryID, *req.UnitID, req.ManufacturerID.Ptr(), req.OriginID.Ptr())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, req *model.ProductRequest, partial bool) (*model.Product, error) {
	if err := s.validateRequest(req, partial); err != nil {
		return nil, err
	}

	name := req.Name
	categoryID := req.CategoryID
	unitID := req.UnitID
	manufacturerID := req.ManufacturerID.Ptr()
	originID := req.OriginID.Ptr()

	if partial {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if name == nil {
			name = &current.Name
		}
		if categoryID == nil {
			categoryID = &current.Category.ID
		}
		if unitID == nil {
			unitID = &current.Unit.ID
		}
		// Absent keeps the current reference; an explicit null clears it.
		if !req.ManufacturerID.Set && current.Manufacturer != nil {
			manufacturerID = &current.Manufacturer.ID
		}
		if !req.OriginID.Set && current.Origin != nil {
			originID = &current.Origin.ID
		}
	}

	return s.repo.Update(ctx, id, *name, *categoryID, *unitID, manufacturerID, originID)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *productService) validateRequest(req *model.ProductRequest, partial bool) error {
	fields := make(map[string]string)

	if !partial {
		if req.Name == nil {
			fields["name"] = "this field is required"
		}
		if req.CategoryID == nil {
			fields["category_id"] = "this field is required"
		}
		if req.UnitID == nil {
			fields["unit_id"] = "this field is required"
		}
	}
	if req.Name != nil && *req.Name == "" {
		fields["name"] = "this field is required"
	}

	if err := s.validate.Struct(req); err != nil {
		collectFieldErrors(fields, err, "")
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
