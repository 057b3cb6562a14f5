package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/stores"
)

// StoreRepository stores outlets
type StoreRepository struct {
	db *sql.DB
}

var _ stores.Repository = (*StoreRepository)(nil)

// NewStoreRepository creates a new SQLite store repository
func NewStoreRepository(db *sql.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, password_hash FROM stores ORDER BY name ASC`)
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

func (r *StoreRepository) Get(ctx context.Context, id string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.QueryRowContext(ctx, `SELECT id, name, password_hash FROM stores WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store %s: %w", id, err)
	}
	s.HasPassword = s.PasswordHash != ""
	return &s, nil
}

func (r *StoreRepository) Upsert(ctx context.Context, s domain.Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (id, name, password_hash) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, password_hash = excluded.password_hash`,
		s.ID, s.Name, s.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to upsert store %s: %w", s.ID, err)
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete store %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete store %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *StoreRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return n, nil
}
