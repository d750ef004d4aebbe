package service

import (
	"context"
	"fmt"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// storeService implements StoreService.
type storeService struct {
	repo     repository.StoreRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewStoreService creates a new store service.
func NewStoreService(repo repository.StoreRepository, logger zerolog.Logger) StoreService {
	return &storeService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.With().Str("service", "store").Logger(),
	}
}

func (s *storeService) List(ctx context.Context) ([]model.Store, error) {
	stores, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	if stores == nil {
		stores = []model.Store{}
	}
	return stores, nil
}

func (s *storeService) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *storeService) Create(ctx context.Context, req *model.StoreRequest) (*model.Store, error) {
	if err := s.validateRequest(req, false); err != nil {
		return nil, err
	}

	store, err := s.repo.Create(ctx, *req.Name, *req.Location)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("store_id", store.ID).Str("name", store.Name).Msg("store created")
	return store, nil
}

func (s *storeService) Update(ctx context.Context, id int64, req *model.StoreRequest, partial bool) (*model.Store, error) {
	if err := s.validateRequest(req, partial); err != nil {
		return nil, err
	}

	name, location := req.Name, req.Location
	if partial && (name == nil || location == nil) {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if name == nil {
			name = &current.Name
		}
		if location == nil {
			location = &current.Location
		}
	}

	return s.repo.Update(ctx, id, *name, *location)
}

func (s *storeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("store_id", id).Msg("store deleted")
	return nil
}

func (s *storeService) validateRequest(req *model.StoreRequest, partial bool) error {
	fields := make(map[string]string)

	if !partial {
		if req.Name == nil {
			fields["name"] = "this field is required"
		}
		if req.Location == nil {
			fields["location"] = "this field is required"
		}
	}
	if req.Name != nil && *req.Name == "" {
		fields["name"] = "this field is required"
	}
	if req.Location != nil && *req.Location == "" {
		fields["location"] = "this field is required"
	}

	if err := s.validate.Struct(req); err != nil {
		collectFieldErrors(fields, err, "")
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
