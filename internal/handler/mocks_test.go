package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/posrelay/internal/auth"
	"github.com/osse101/posrelay/internal/customer"
	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/sales"
	"github.com/osse101/posrelay/internal/stores"
)

type MockCatalogService struct{ mock.Mock }

func NewMockCatalogService(t *testing.T) *MockCatalogService {
	m := &MockCatalogService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCatalogService) Get(ctx context.Context, storeID string) (*domain.CatalogRecord, error) {
	args := m.Called(ctx, storeID)
	rec, _ := args.Get(0).(*domain.CatalogRecord)
	return rec, args.Error(1)
}

func (m *MockCatalogService) Save(ctx context.Context, storeID string, categories domain.Catalog, baseVersion *int64, source string) (*domain.CatalogRecord, error) {
	args := m.Called(ctx, storeID, categories, baseVersion, source)
	rec, _ := args.Get(0).(*domain.CatalogRecord)
	return rec, args.Error(1)
}

type MockSalesService struct{ mock.Mock }

func NewMockSalesService(t *testing.T) *MockSalesService {
	m := &MockSalesService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSalesService) Record(ctx context.Context, ticket domain.ClosedTicket) (bool, error) {
	args := m.Called(ctx, ticket)
	return args.Bool(0), args.Error(1)
}

func (m *MockSalesService) List(ctx context.Context) ([]domain.ClosedTicket, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.ClosedTicket)
	return list, args.Error(1)
}

func (m *MockSalesService) Sync(ctx context.Context, tickets []domain.ClosedTicket) sales.SyncResult {
	args := m.Called(ctx, tickets)
	return args.Get(0).(sales.SyncResult)
}

type MockStoreService struct{ mock.Mock }

func NewMockStoreService(t *testing.T) *MockStoreService {
	m := &MockStoreService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStoreService) List(ctx context.Context) ([]domain.Store, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Store)
	return list, args.Error(1)
}

func (m *MockStoreService) Save(ctx context.Context, in stores.SaveInput) (*domain.Store, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*domain.Store)
	return s, args.Error(1)
}

func (m *MockStoreService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStoreService) Verify(ctx context.Context, id, password string) error {
	return m.Called(ctx, id, password).Error(0)
}

type MockCustomerService struct{ mock.Mock }

func NewMockCustomerService(t *testing.T) *MockCustomerService {
	m := &MockCustomerService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCustomerService) Search(ctx context.Context, q string) ([]domain.Customer, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]domain.Customer)
	return list, args.Error(1)
}

func (m *MockCustomerService) Save(ctx context.Context, in customer.SaveInput) (*domain.Customer, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*domain.Customer)
	return c, args.Error(1)
}

type MockAuthenticator struct{ mock.Mock }

func NewMockAuthenticator(t *testing.T) *MockAuthenticator {
	m := &MockAuthenticator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuthenticator) Login(ctx context.Context, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, password)
	res, _ := args.Get(0).(*auth.LoginResult)
	return res, args.Error(1)
}

type recordingFailures struct{ ips []string }

func (r *recordingFailures) RecordFailedAuth(ip string) { r.ips = append(r.ips, ip) }
