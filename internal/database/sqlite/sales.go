package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/sales"
)

// SalesRepository stores closed tickets
type SalesRepository struct {
	db *sql.DB
}

var _ sales.Repository = (*SalesRepository)(nil)

// NewSalesRepository creates a new SQLite sales repository
func NewSalesRepository(db *sql.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// Insert stores a ticket; an existing id is left untouched
func (r *SalesRepository) Insert(ctx context.Context, t domain.ClosedTicket) (bool, error) {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return false, fmt.Errorf("failed to marshal items: %w", err)
	}
	var client sql.NullString
	if t.Client != nil {
		raw, err := json.Marshal(t.Client)
		if err != nil {
			return false, fmt.Errorf("failed to marshal client: %w", err)
		}
		client = sql.NullString{String: string(raw), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sales (id, timestamp, total, type, items, client)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.Timestamp, t.Total, string(t.Type), string(items), client)
	if err != nil {
		return false, fmt.Errorf("failed to insert ticket %s: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert ticket %s: %w", t.ID, err)
	}
	return n == 1, nil
}

// List returns up to limit tickets, newest first
func (r *SalesRepository) List(ctx context.Context, limit int) ([]domain.ClosedTicket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, total, type, items, client
		FROM sales
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var out []domain.ClosedTicket
	for rows.Next() {
		var (
			t      domain.ClosedTicket
			typ    string
			items  string
			client sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Total, &typ, &items, &client); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		t.Type = domain.TicketType(typ)
		if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items of %s: %w", t.ID, err)
		}
		if client.Valid {
			t.Client = &domain.Customer{}
			if err := json.Unmarshal([]byte(client.String), t.Client); err != nil {
				return nil, fmt.Errorf("failed to unmarshal client of %s: %w", t.ID, err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
