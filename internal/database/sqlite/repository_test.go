package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/posrelay/internal/database"
	"github.com/osse101/posrelay/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DialectSQLite))
	return db
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{{
		ID:    "cat-1",
		Label: "Almacén",
		Products: []domain.Product{
			{ID: "p-2", Name: "Queso", PricePerUnit: 9000, UnitType: domain.UnitTypeWeight},
			{ID: "p-1", Name: "Yerba", PricePerUnit: 1500, UnitType: domain.UnitTypeUnit},
		},
	}}
}

func int64p(v int64) *int64 { return &v }

func TestCatalogRepository(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx, domain.GlobalCatalogKey)
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)

	rec, err := repo.Put(ctx, domain.GlobalCatalogKey, "", sampleCatalog(), int64p(0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)

	_, err = repo.Put(ctx, domain.GlobalCatalogKey, "", sampleCatalog(), int64p(0))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	rec, err = repo.Put(ctx, domain.GlobalCatalogKey, "", sampleCatalog(), int64p(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.Version)

	_, err = repo.Put(ctx, domain.GlobalCatalogKey, "", sampleCatalog(), int64p(1))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	rec, err = repo.Put(ctx, domain.GlobalCatalogKey, "", domain.Catalog{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Version)

	got, err := repo.Get(ctx, domain.GlobalCatalogKey)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.Empty(t, got.Categories)
	assert.False(t, got.UpdatedAt.IsZero())

	key := domain.CatalogKey("s1")
	_, err = repo.Put(ctx, key, "s1", sampleCatalog(), nil)
	require.NoError(t, err)
	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "s1", got.StoreID)
	assert.Equal(t, "p-2", got.Categories[0].Products[0].ID, "product order is preserved")
}

func TestSalesRepository(t *testing.T) {
	repo := NewSalesRepository(newTestDB(t))
	ctx := context.Background()

	for i, ticket := range []domain.ClosedTicket{
		{ID: "t-1", Timestamp: 1000, Total: 1500, Type: domain.TicketTypeNormal,
			Items: []domain.TicketItem{{ProductID: "p-1", Name: "Yerba", PricePerUnit: 1500, Quantity: 1, UnitType: domain.UnitTypeUnit}}},
		{ID: "t-2", Timestamp: 3000, Total: 4500, Type: domain.TicketTypeB,
			Items:  []domain.TicketItem{{ProductID: "p-2", Name: "Queso", PricePerUnit: 9000, Quantity: 0.5, UnitType: domain.UnitTypeWeight}},
			Client: &domain.Customer{Name: "Ana", CUIT: "27-9"}},
		{ID: "t-3", Timestamp: 2000, Total: 0, Type: domain.TicketTypeNormal, Items: []domain.TicketItem{}},
	} {
		stored, err := repo.Insert(ctx, ticket)
		require.NoError(t, err, "ticket %d", i)
		assert.True(t, stored)
	}

	stored, err := repo.Insert(ctx, domain.ClosedTicket{ID: "t-1", Timestamp: 9999, Items: []domain.TicketItem{}})
	require.NoError(t, err)
	assert.False(t, stored)

	got, err := repo.List(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"t-2", "t-3", "t-1"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, int64(1000), got[2].Timestamp, "duplicate insert did not overwrite")
	require.NotNil(t, got[0].Client)
	assert.Equal(t, "27-9", got[0].Client.CUIT)
	assert.Nil(t, got[1].Client)
	assert.NotNil(t, got[1].Items)
}

func TestStoreRepository(t *testing.T) {
	repo := NewStoreRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, domain.Store{ID: "b", Name: "Sucursal B", PasswordHash: "hash"}))
	require.NoError(t, repo.Upsert(ctx, domain.Store{ID: "a", Name: "Sucursal A"}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.True(t, list[1].HasPassword)

	deleted, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}

func TestCustomerRepository(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Upsert(ctx, domain.Customer{ID: "c-1", Name: "José", CUIT: "20-123"}, "jose 20-123 20123")
	require.NoError(t, err)
	assert.Equal(t, "c-1", first.ID)

	again, err := repo.Upsert(ctx, domain.Customer{ID: "c-9", Name: "José Pérez", CUIT: "20-123"}, "jose perez 20-123 20123")
	require.NoError(t, err)
	assert.Equal(t, "c-1", again.ID)
	assert.Equal(t, "José Pérez", again.Name)

	_, err = repo.Upsert(ctx, domain.Customer{ID: "c-2", Name: "Ana", CUIT: "27-9"}, "ana 27-9 279")
	require.NoError(t, err)

	found, err := repo.Search(ctx, "perez", 50)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c-1", found[0].ID)

	all, err := repo.Search(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ana", all[0].Name)

	none, err := repo.Search(ctx, "_", 50)
	require.NoError(t, err)
	assert.Empty(t, none)
}
