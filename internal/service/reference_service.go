package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/repository"

	"github.com/rs/zerolog"
)

// referenceService implements ReferenceService on top of a reference
// repository. One instance serves one entity kind.
type referenceService struct {
	repo   repository.ReferenceRepository
	logger zerolog.Logger
}

// NewReferenceService creates a service for the repository's reference kind.
func NewReferenceService(repo repository.ReferenceRepository, logger zerolog.Logger) ReferenceService {
	return &referenceService{
		repo:   repo,
		logger: logger.With().Str("service", repo.Kind().Singular).Logger(),
	}
}

func (s *referenceService) Kind() model.ReferenceKind {
	return s.repo.Kind()
}

func (s *referenceService) List(ctx context.Context) ([]model.Reference, error) {
	refs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Kind().Table, err)
	}
	if refs == nil {
		refs = []model.Reference{}
	}
	return refs, nil
}

func (s *referenceService) GetByID(ctx context.Context, id int64) (*model.Reference, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *referenceService) Create(ctx context.Context, req *model.ReferenceRequest) (*model.Reference, error) {
	if err := s.validateName(req); err != nil {
		return nil, err
	}

	ref, err := s.repo.Create(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", ref.ID).Str("name", ref.Name).Msg("reference created")
	return ref, nil
}

func (s *referenceService) Update(ctx context.Context, id int64, req *model.ReferenceRequest) (*model.Reference, error) {
	if err := s.validateName(req); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, req.Name)
}

func (s *referenceService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("id", id).Msg("reference deleted")
	return nil
}

// validateName enforces the per-kind name length limit. The limits differ
// across the four kinds, so this stays out of struct tags. Length is counted
// in runes, matching VARCHAR(n) semantics.
func (s *referenceService) validateName(req *model.ReferenceRequest) error {
	fields := make(map[string]string)

	name := req.Name
	switch {
	case strings.TrimSpace(name) == "":
		fields["name"] = "this field is required"
	case utf8.RuneCountInString(name) > s.Kind().MaxName:
		fields["name"] = fmt.Sprintf("must be at most %d characters", s.Kind().MaxName)
	}

	if len(fields) > 0 {
		return model.NewValidationError(fields)
	}
	return nil
}
