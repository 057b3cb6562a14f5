package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/posrelay/internal/customer"
	"github.com/osse101/posrelay/internal/database"
	"github.com/osse101/posrelay/internal/domain"
)

// CustomerRepository stores customers in the clients table
type CustomerRepository struct {
	db *pgxpool.Pool
}

var _ customer.Repository = (*CustomerRepository)(nil)

// NewCustomerRepository creates a new PostgreSQL customer repository
func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Search matches key against the folded search key
func (r *CustomerRepository) Search(ctx context.Context, key string, limit int) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, cuit, created_at
		FROM clients
		WHERE search_key LIKE $1 ESCAPE '\'
		ORDER BY name ASC
		LIMIT $2`, database.ContainsPattern(key), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.CUIT, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Upsert inserts c or renames the row holding the same CUIT
func (r *CustomerRepository) Upsert(ctx context.Context, c domain.Customer, searchKey string) (*domain.Customer, error) {
	var saved domain.Customer
	err := r.db.QueryRow(ctx, `
		INSERT INTO clients (id, name, cuit, search_key)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cuit) DO UPDATE SET name = EXCLUDED.name, search_key = EXCLUDED.search_key
		RETURNING id, name, cuit, created_at`,
		c.ID, c.Name, c.CUIT, searchKey).Scan(&saved.ID, &saved.Name, &saved.CUIT, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert client %s: %w", c.CUIT, err)
	}
	return &saved, nil
}
