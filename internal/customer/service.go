// Package customer stores the buyers attached to A and B tickets.
package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/logger"
)

// Repository persists customers together with their folded search key
type Repository interface {
	// Search matches key as a substring of the stored search key, ordered by name.
	// An empty key lists customers.
	Search(ctx context.Context, key string, limit int) ([]domain.Customer, error)
	// Upsert inserts c or, when its CUIT exists, renames the existing row.
	// The returned customer carries the persisted id.
	Upsert(ctx context.Context, c domain.Customer, searchKey string) (*domain.Customer, error)
}

// SaveInput is the payload of a customer upsert
type SaveInput struct {
	Name string `json:"name" validate:"required,max=200"`
	CUIT string `json:"cuit" validate:"required,max=20"`
}

// Service searches and upserts customers
type Service struct {
	repo Repository
}

// NewService creates a customer service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search finds customers whose name or CUIT contains q, ignoring case and accents
func (s *Service) Search(ctx context.Context, q string) ([]domain.Customer, error) {
	key := Fold(q)
	limit := SearchLimit
	if key == "" {
		limit = ListLimit
	}

	list, err := s.repo.Search(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	if list == nil {
		list = []domain.Customer{}
	}
	return list, nil
}

// Save creates a customer or renames the one with the same CUIT
func (s *Service) Save(ctx context.Context, in SaveInput) (*domain.Customer, error) {
	name, cuit := strings.TrimSpace(in.Name), strings.TrimSpace(in.CUIT)
	if name == "" || cuit == "" {
		return nil, fmt.Errorf("%w: name and cuit are required", domain.ErrInvalidCustomer)
	}

	c := domain.Customer{ID: uuid.NewString(), Name: name, CUIT: cuit}
	saved, err := s.repo.Upsert(ctx, c, SearchKey(name, cuit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}

	logger.FromContext(ctx).Info(LogMsgCustomerSaved, "customer_id", saved.ID)
	return saved, nil
}
