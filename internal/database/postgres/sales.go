package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/sales"
)

// SalesRepository stores closed tickets
type SalesRepository struct {
	db *pgxpool.Pool
}

var _ sales.Repository = (*SalesRepository)(nil)

// NewSalesRepository creates a new PostgreSQL sales repository
func NewSalesRepository(db *pgxpool.Pool) *SalesRepository {
	return &SalesRepository{db: db}
}

// Insert stores a ticket; an existing id is left untouched
func (r *SalesRepository) Insert(ctx context.Context, t domain.ClosedTicket) (bool, error) {
	items, client, err := marshalTicketParts(t)
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO sales (id, timestamp, total, type, items, client)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.Timestamp, t.Total, string(t.Type), items, client)
	if err != nil {
		return false, fmt.Errorf("failed to insert ticket %s: %w", t.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// List returns up to limit tickets, newest first
func (r *SalesRepository) List(ctx context.Context, limit int) ([]domain.ClosedTicket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, timestamp, total, type, items, client
		FROM sales
		ORDER BY timestamp DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var out []domain.ClosedTicket
	for rows.Next() {
		var (
			t            domain.ClosedTicket
			typ          string
			items, owner []byte
		)
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Total, &typ, &items, &owner); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		t.Type = domain.TicketType(typ)
		if err := unmarshalTicketParts(&t, items, owner); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func marshalTicketParts(t domain.ClosedTicket) (items []byte, client []byte, err error) {
	items, err = json.Marshal(t.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal items: %w", err)
	}
	if t.Client != nil {
		client, err = json.Marshal(t.Client)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal client: %w", err)
		}
	}
	return items, client, nil
}

func unmarshalTicketParts(t *domain.ClosedTicket, items, client []byte) error {
	if err := json.Unmarshal(items, &t.Items); err != nil {
		return fmt.Errorf("failed to unmarshal items of %s: %w", t.ID, err)
	}
	if len(client) > 0 {
		t.Client = &domain.Customer{}
		if err := json.Unmarshal(client, t.Client); err != nil {
			return fmt.Errorf("failed to unmarshal client of %s: %w", t.ID, err)
		}
	}
	return nil
}
