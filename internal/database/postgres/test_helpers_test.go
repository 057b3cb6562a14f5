package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/osse101/posrelay/internal/database"
)

// newTestPool opens a pool against the shared container and migrates it.
// Tables are truncated so every test starts empty.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}

	pool, err := database.NewPool(testDBConnString, 5, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ctx := context.Background()
	require.NoError(t, database.MigratePool(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE app_config, sales, stores, clients`)
	require.NoError(t, err)
	return pool
}
