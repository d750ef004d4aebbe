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

// storeRepository implements the StoreRepository interface using PostgreSQL.
type storeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStoreRepository creates a new PostgreSQL-backed store repository.
func NewStoreRepository(pool *pgxpool.Pool, logger zerolog.Logger) StoreRepository {
	return &storeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "store").Logger(),
	}
}

// List retrieves all stores ordered by id.
func (r *storeRepository) List(ctx context.Context) ([]model.Store, error) {
	query := `SELECT id, name, location FROM stores ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query stores")
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		var s model.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Location); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan store row")
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating store rows")
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}

	return stores, nil
}

// GetByID retrieves a single store by its id.
func (r *storeRepository) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	query := `SELECT id, name, location FROM stores WHERE id = $1`

	var s model.Store
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("store_id", id).Msg("store not found")
			return nil, model.ErrNotFound
		}
		r.logger.Error().Err(err).Int64("store_id", id).Msg("failed to query store")
		return nil, fmt.Errorf("failed to query store: %w", err)
	}

	return &s, nil
}

// Create inserts a new store row.
func (r *storeRepository) Create(ctx context.Context, name, location string) (*model.Store, error) {
	query := `INSERT INTO stores (name, location) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := r.pool.QueryRow(ctx, query, name, location).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("name", name).Str("location", location).Msg("duplicate store")
			return nil, model.ErrConflict
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to insert store")
		return nil, fmt.Errorf("failed to insert store: %w", err)
	}

	return &model.Store{ID: id, Name: name, Location: location}, nil
}

// Update replaces both fields of a store row.
func (r *storeRepository) Update(ctx context.Context, id int64, name, location string) (*model.Store, error) {
	query := `UPDATE stores SET name = $2, location = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, name, location)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrConflict
		}
		r.logger.Error().Err(err).Int64("store_id", id).Msg("failed to update store")
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrNotFound
	}

	return &model.Store{ID: id, Name: name, Location: location}, nil
}

// Delete removes a store row unless a shopping record still references it.
func (r *storeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			r.logger.Debug().Int64("store_id", id).Msg("store still referenced")
			return model.ErrProtected
		}
		r.logger.Error().Err(err).Int64("store_id", id).Msg("failed to delete store")
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// GetOrCreate resolves a store by the full (name, location) pair within the
// given transaction, inserting it when absent. The unique constraint on the
// pair keeps concurrent resolutions from creating duplicates.
func (r *storeRepository) GetOrCreate(ctx context.Context, tx pgx.Tx, name, location string) (*model.Store, error) {
	insert := `
		INSERT INTO stores (name, location)
		VALUES ($1, $2)
		ON CONFLICT (name, location) DO NOTHING
		RETURNING id
	`

	var id int64
	err := tx.QueryRow(ctx, insert, name, location).Scan(&id)
	if err == nil {
		return &model.Store{ID: id, Name: name, Location: location}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("name", name).Str("location", location).Msg("failed to upsert store")
		return nil, fmt.Errorf("failed to resolve store: %w", err)
	}

	query := `SELECT id FROM stores WHERE name = $1 AND location = $2`
	if err := tx.QueryRow(ctx, query, name, location).Scan(&id); err != nil {
		r.logger.Error().Err(err).Str("name", name).Str("location", location).Msg("failed to re-select store after conflict")
		return nil, fmt.Errorf("failed to resolve store: %w", err)
	}

	return &model.Store{ID: id, Name: name, Location: location}, nil
}
