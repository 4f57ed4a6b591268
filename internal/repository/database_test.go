package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for database operations
// Run with: go test -v ./internal/repository/... against a local test database

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "nhl_stats_test",
		User:     "nhl_user",
		Password: "nhl_password",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, db.Migrate(ctx), "Failed to apply schema")

	// Start from a clean slate, children first
	for i := len(Tables) - 1; i >= 0; i-- {
		_, err := db.Pool.Exec(ctx, "DELETE FROM "+Tables[i])
		require.NoError(t, err)
	}

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1))
}

func TestDatabasePing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.Pool.Ping(ctx)
	assert.NoError(t, err, "Should successfully ping database")
}

func TestRowCounts(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	counts, err := db.RowCounts(ctx)
	require.NoError(t, err)

	assert.Len(t, counts, len(Tables), "Every pipeline table should be counted")
	for _, table := range Tables {
		assert.Contains(t, counts, table)
		assert.Zero(t, counts[table], "Tables start empty after setup")
	}
}
