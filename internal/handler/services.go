package handler

import (
	"context"

	"github.com/osse101/posrelay/internal/auth"
	"github.com/osse101/posrelay/internal/customer"
	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/sales"
	"github.com/osse101/posrelay/internal/stores"
)

// CatalogService reads and writes versioned catalogs
type CatalogService interface {
	Get(ctx context.Context, storeID string) (*domain.CatalogRecord, error)
	Save(ctx context.Context, storeID string, categories domain.Catalog, baseVersion *int64, source string) (*domain.CatalogRecord, error)
}

// SalesService records and lists closed tickets
type SalesService interface {
	Record(ctx context.Context, t domain.ClosedTicket) (bool, error)
	List(ctx context.Context) ([]domain.ClosedTicket, error)
	Sync(ctx context.Context, tickets []domain.ClosedTicket) sales.SyncResult
}

// StoreService manages outlets
type StoreService interface {
	List(ctx context.Context) ([]domain.Store, error)
	Save(ctx context.Context, in stores.SaveInput) (*domain.Store, error)
	Delete(ctx context.Context, id string) error
	Verify(ctx context.Context, id, password string) error
}

// CustomerService searches and upserts customers
type CustomerService interface {
	Search(ctx context.Context, q string) ([]domain.Customer, error)
	Save(ctx context.Context, in customer.SaveInput) (*domain.Customer, error)
}

// Authenticator exchanges an operator password for a capability token
type Authenticator interface {
	Login(ctx context.Context, password string) (*auth.LoginResult, error)
}
