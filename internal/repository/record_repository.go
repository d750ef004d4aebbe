package repository

import (
	"context"
	"errors"
	"fmt"

	"shopping-ledger/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// recordRepository implements the RecordRepository interface using PostgreSQL.
type recordRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRecordRepository creates a new PostgreSQL-backed shopping-record repository.
func NewRecordRepository(pool *pgxpool.Pool, logger zerolog.Logger) RecordRepository {
	return &recordRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "record").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *recordRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const recordSelect = `
	SELECT sr.id, sr.price, sr.purchase_date, sr.quantity,
	       s.id, s.name, s.location,
	       p.id, p.name,
	       c.id, c.name,
	       u.id, u.name,
	       m.id, m.name,
	       o.id, o.name
	FROM shopping_records sr
	JOIN stores s ON s.id = sr.store_id
	JOIN products p ON p.id = sr.product_id
	JOIN categories c ON c.id = p.category_id
	JOIN units u ON u.id = p.unit_id
	LEFT JOIN manufacturers m ON m.id = p.manufacturer_id
	LEFT JOIN origins o ON o.id = p.origin_id
`

// scanRecord scans one row of recordSelect into a fully expanded record.
func scanRecord(row pgx.Row) (*model.ShoppingRecord, error) {
	var (
		rec              model.ShoppingRecord
		manufacturerID   *int64
		manufacturerName *string
		originID         *int64
		originName       *string
	)

	err := row.Scan(
		&rec.ID, &rec.Price, &rec.PurchaseDate, &rec.Quantity,
		&rec.Store.ID, &rec.Store.Name, &rec.Store.Location,
		&rec.Product.ID, &rec.Product.Name,
		&rec.Product.Category.ID, &rec.Product.Category.Name,
		&rec.Product.Unit.ID, &rec.Product.Unit.Name,
		&manufacturerID, &manufacturerName,
		&originID, &originName,
	)
	if err != nil {
		return nil, err
	}

	if manufacturerID != nil {
		rec.Product.Manufacturer = &model.Reference{ID: *manufacturerID, Name: *manufacturerName}
	}
	if originID != nil {
		rec.Product.Origin = &model.Reference{ID: *originID, Name: *originName}
	}

	return &rec, nil
}

// List retrieves all records ordered by ascending purchase date, ties broken
// by insertion order.
func (r *recordRepository) List(ctx context.Context) ([]model.ShoppingRecord, error) {
	rows, err := r.pool.Query(ctx, recordSelect+` ORDER BY sr.purchase_date, sr.id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query records")
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []model.ShoppingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan record row")
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating record rows")
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// GetByID retrieves a single record with its store and product expanded.
func (r *recordRepository) GetByID(ctx context.Context, id int64) (*model.ShoppingRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, recordSelect+` WHERE sr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("record_id", id).Msg("record not found")
			return nil, model.ErrNotFound
		}
		r.logger.Error().Err(err).Int64("record_id", id).Msg("failed to query record")
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return rec, nil
}

// Insert adds a record within the provided transaction.
func (r *recordRepository) Insert(ctx context.Context, tx pgx.Tx, price int64, purchaseDate model.Date, quantity decimal.Decimal, storeID, productID int64) (int64, error) {
	query := `
		INSERT INTO shopping_records (price, purchase_date, quantity, store_id, product_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	if err := tx.QueryRow(ctx, query, price, purchaseDate, quantity, storeID, productID).Scan(&id); err != nil {
		r.logger.Error().Err(err).Msg("failed to insert record")
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}

	r.logger.Debug().Int64("record_id", id).Msg("record inserted")
	return id, nil
}

// Update replaces the scalar fields and reassigns the two foreign keys within
// the provided transaction.
func (r *recordRepository) Update(ctx context.Context, tx pgx.Tx, id, price int64, purchaseDate model.Date, quantity decimal.Decimal, storeID, productID int64) error {
	query := `
		UPDATE shopping_records
		SET price = $2, purchase_date = $3, quantity = $4, store_id = $5, product_id = $6
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, price, purchaseDate, quantity, storeID, productID)
	if err != nil {
		r.logger.Error().Err(err).Int64("record_id", id).Msg("failed to update record")
		return fmt.Errorf("failed to update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Delete removes a record row.
func (r *recordRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shopping_records WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("record_id", id).Msg("failed to delete record")
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
