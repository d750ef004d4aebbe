package repository

import (
	"context"
	"errors"
	"fmt"

	"shopping-ledger/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// referenceRepository implements ReferenceRepository for one lookup table.
// The four reference entities share one implementation parameterised by kind.
type referenceRepository struct {
	pool   *pgxpool.Pool
	kind   model.ReferenceKind
	logger zerolog.Logger
}

// NewReferenceRepository creates a PostgreSQL-backed repository for the given
// reference kind.
func NewReferenceRepository(pool *pgxpool.Pool, kind model.ReferenceKind, logger zerolog.Logger) ReferenceRepository {
	return &referenceRepository{
		pool:   pool,
		kind:   kind,
		logger: logger.With().Str("repository", kind.Singular).Logger(),
	}
}

func (r *referenceRepository) Kind() model.ReferenceKind {
	return r.kind
}

// List retrieves all rows ordered by id.
func (r *referenceRepository) List(ctx context.Context) ([]model.Reference, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, r.kind.Table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query rows")
		return nil, fmt.Errorf("failed to query %s: %w", r.kind.Table, err)
	}
	defer rows.Close()

	var refs []model.Reference
	for rows.Next() {
		var ref model.Reference
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan row")
			return nil, fmt.Errorf("failed to scan %s: %w", r.kind.Singular, err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating rows")
		return nil, fmt.Errorf("error iterating %s: %w", r.kind.Table, err)
	}

	return refs, nil
}

// GetByID retrieves a single row by its surrogate id.
func (r *referenceRepository) GetByID(ctx context.Context, id int64) (*model.Reference, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, r.kind.Table)

	var ref model.Reference
	err := r.pool.QueryRow(ctx, query, id).Scan(&ref.ID, &ref.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("id", id).Msg("row not found")
			return nil, model.ErrNotFound
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to query row")
		return nil, fmt.Errorf("failed to query %s: %w", r.kind.Singular, err)
	}

	return &ref, nil
}

// Create inserts a new row. A duplicate name is reported as a conflict.
func (r *referenceRepository) Create(ctx context.Context, name string) (*model.Reference, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, r.kind.Table)

	var id int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("name", name).Msg("duplicate name")
			return nil, model.ErrConflict
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to insert row")
		return nil, fmt.Errorf("failed to insert %s: %w", r.kind.Singular, err)
	}

	return &model.Reference{ID: id, Name: name}, nil
}

// Update renames a row.
func (r *referenceRepository) Update(ctx context.Context, id int64, name string) (*model.Reference, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = $2 WHERE id = $1`, r.kind.Table)

	tag, err := r.pool.Exec(ctx, query, id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrConflict
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to update row")
		return nil, fmt.Errorf("failed to update %s: %w", r.kind.Singular, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrNotFound
	}

	return &model.Reference{ID: id, Name: name}, nil
}

// Delete removes a row. Rows still referenced by a product are protected.
func (r *referenceRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.kind.Table)

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			r.logger.Debug().Int64("id", id).Msg("row still referenced")
			return model.ErrProtected
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to delete row")
		return fmt.Errorf("failed to delete %s: %w", r.kind.Singular, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// GetOrCreate resolves a row by exact name within the given transaction,
// inserting it when absent. The unique constraint on name makes the idiom
// atomic: a racing insert leaves ON CONFLICT with no row, and the re-select
// then observes the committed winner.
func (r *referenceRepository) GetOrCreate(ctx context.Context, tx pgx.Tx, name string) (*model.Reference, error) {
	insert := fmt.Sprintf(
		`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
		r.kind.Table,
	)

	var id int64
	err := tx.QueryRow(ctx, insert, name).Scan(&id)
	if err == nil {
		return &model.Reference{ID: id, Name: name}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to upsert row")
		return nil, fmt.Errorf("failed to resolve %s: %w", r.kind.Singular, err)
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, r.kind.Table)
	if err := tx.QueryRow(ctx, query, name).Scan(&id); err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to re-select row after conflict")
		return nil, fmt.Errorf("failed to resolve %s: %w", r.kind.Singular, err)
	}

	return &model.Reference{ID: id, Name: name}, nil
}
