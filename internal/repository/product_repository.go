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

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productSelect = `
	SELECT p.id, p.name,
	       c.id, c.name,
	       u.id, u.name,
	       m.id, m.name,
	       o.id, o.name
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN units u ON u.id = p.unit_id
	LEFT JOIN manufacturers m ON m.id = p.manufacturer_id
	LEFT JOIN origins o ON o.id = p.origin_id
`

// scanProduct scans one row of productSelect into a fully expanded product.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p                model.Product
		manufacturerID   *int64
		manufacturerName *string
		originID         *int64
		originName       *string
	)

	err := row.Scan(
		&p.ID, &p.Name,
		&p.Category.ID, &p.Category.Name,
		&p.Unit.ID, &p.Unit.Name,
		&manufacturerID, &manufacturerName,
		&originID, &originName,
	)
	if err != nil {
		return nil, err
	}

	if manufacturerID != nil {
		p.Manufacturer = &model.Reference{ID: *manufacturerID, Name: *manufacturerName}
	}
	if originID != nil {
		p.Origin = &model.Reference{ID: *originID, Name: *originName}
	}

	return &p, nil
}

// List retrieves all products with their references expanded.
func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, productSelect+` ORDER BY p.id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product with its references expanded.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, model.ErrNotFound
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// Create inserts a new product referencing already-resolved rows.
func (r *productRepository) Create(ctx context.Context, name string, categoryID, unitID int64, manufacturerID, originID *int64) (*model.Product, error) {
	query := `
		INSERT INTO products (name, category_id, unit_id, manufacturer_id, origin_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, name, categoryID, unitID, manufacturerID, originID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("name", name).Msg("duplicate product natural key")
			return nil, model.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, model.NewDomainError(model.ErrCodeValidation, "referenced row does not exist")
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to insert product")
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update replaces all fields of a product row.
func (r *productRepository) Update(ctx context.Context, id int64, name string, categoryID, unitID int64, manufacturerID, originID *int64) (*model.Product, error) {
	query := `
		UPDATE products
		SET name = $2, category_id = $3, unit_id = $4, manufacturer_id = $5, origin_id = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, name, categoryID, unitID, manufacturerID, originID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, model.NewDomainError(model.ErrCodeValidation, "referenced row does not exist")
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a product unless a shopping record still references it.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			r.logger.Debug().Int64("product_id", id).Msg("product still referenced")
			return model.ErrProtected
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// GetOrCreate resolves a product by its full natural key within the given
// transaction, inserting it when absent. Matching on the nullable references
// uses IS NOT DISTINCT FROM so "both absent" compares equal, and the
// NULLS NOT DISTINCT unique index keeps the idiom race-free.
func (r *productRepository) GetOrCreate(ctx context.Context, tx pgx.Tx, name string, categoryID, unitID int64, manufacturerID, originID *int64) (int64, error) {
	insert := `
		INSERT INTO products (name, category_id, unit_id, manufacturer_id, origin_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
		RETURNING id
	`

	var id int64
	err := tx.QueryRow(ctx, insert, name, categoryID, unitID, manufacturerID, originID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isForeignKeyViolation(err) {
			return 0, model.NewDomainError(model.ErrCodeValidation, "referenced row does not exist")
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to upsert product")
		return 0, fmt.Errorf("failed to resolve product: %w", err)
	}

	query := `
		SELECT id FROM products
		WHERE name = $1
		  AND category_id = $2
		  AND unit_id = $3
		  AND manufacturer_id IS NOT DISTINCT FROM $4
		  AND origin_id IS NOT DISTINCT FROM $5
	`
	if err := tx.QueryRow(ctx, query, name, categoryID, unitID, manufacturerID, originID).Scan(&id); err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to re-select product after conflict")
		return 0, fmt.Errorf("failed to resolve product: %w", err)
	}

	return id, nil
}
