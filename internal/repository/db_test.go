package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	createSchema(t, pool)

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(150) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS units (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(10) NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS manufacturers (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS origins (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS stores (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			location VARCHAR(100) NOT NULL,
			UNIQUE (name, location)
		);
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			unit_id BIGINT NOT NULL REFERENCES units(id) ON DELETE RESTRICT,
			manufacturer_id BIGINT REFERENCES manufacturers(id) ON DELETE RESTRICT,
			origin_id BIGINT REFERENCES origins(id) ON DELETE RESTRICT,
			UNIQUE NULLS NOT DISTINCT (name, category_id, unit_id, manufacturer_id, origin_id)
		);
		CREATE TABLE IF NOT EXISTS shopping_records (
			id BIGSERIAL PRIMARY KEY,
			price BIGINT NOT NULL,
			purchase_date DATE NOT NULL,
			quantity NUMERIC(10, 3) NOT NULL,
			store_id BIGINT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT
		);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}
