package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/stores"
)

// StoreRepository stores outlets
type StoreRepository struct {
	db *pgxpool.Pool
}

var _ stores.Repository = (*StoreRepository)(nil)

// NewStoreRepository creates a new PostgreSQL store repository
func NewStoreRepository(db *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{db: db}
}

// List returns every store ordered by name
func (r *StoreRepository) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, password_hash FROM stores ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var out []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.PasswordHash); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		s.HasPassword = s.PasswordHash != ""
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns one store
func (r *StoreRepository) Get(ctx context.Context, id string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.QueryRow(ctx, `SELECT id, name, password_hash FROM stores WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store %s: %w", id, err)
	}
	s.HasPassword = s.PasswordHash != ""
	return &s, nil
}

// Upsert inserts or replaces a store
func (r *StoreRepository) Upsert(ctx context.Context, s domain.Store) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stores (id, name, password_hash) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash`,
		s.ID, s.Name, s.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to upsert store %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes a store
func (r *StoreRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete store %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of stores
func (r *StoreRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return n, nil
}
