package sales

import (
	"context"

	"github.com/osse101/posrelay/internal/domain"
)

// Repository stores closed tickets
type Repository interface {
	// Insert stores t unless a ticket with the same id exists.
	// It reports whether a row was written.
	Insert(ctx context.Context, t domain.ClosedTicket) (bool, error)

	// List returns up to limit tickets, newest first
	List(ctx context.Context, limit int) ([]domain.ClosedTicket, error)
}

// DeadLetter receives tickets that could not be persisted
type DeadLetter interface {
	Write(t domain.ClosedTicket, cause error) error
}
