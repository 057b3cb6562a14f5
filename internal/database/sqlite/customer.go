package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/osse101/posrelay/internal/customer"
	"github.com/osse101/posrelay/internal/database"
	"github.com/osse101/posrelay/internal/domain"
)

// CustomerRepository stores customers in the clients table
type CustomerRepository struct {
	db *sql.DB
}

var _ customer.Repository = (*CustomerRepository)(nil)

// NewCustomerRepository creates a new SQLite customer repository
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Search matches key against the folded search key
func (r *CustomerRepository) Search(ctx context.Context, key string, limit int) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, cuit, created_at
		FROM clients
		WHERE search_key LIKE ? ESCAPE '\'
		ORDER BY name ASC
		LIMIT ?`, database.ContainsPattern(key), limit)
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
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, cuit, search_key)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (cuit) DO UPDATE SET name = excluded.name, search_key = excluded.search_key`,
		c.ID, c.Name, c.CUIT, searchKey)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert client %s: %w", c.CUIT, err)
	}

	var saved domain.Customer
	err = r.db.QueryRowContext(ctx, `SELECT id, name, cuit, created_at FROM clients WHERE cuit = ?`, c.CUIT).
		Scan(&saved.ID, &saved.Name, &saved.CUIT, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reload client %s: %w", c.CUIT, err)
	}
	return &saved, nil
}
