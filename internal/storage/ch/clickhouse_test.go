package ch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"fpibot/internal/models"
)

// runMigrations manually creates the stats schema for tests
func runMigrations(ctx context.Context, db *ClickHouseStats) error {
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS bot_commands")

	return db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bot_commands (
			user_id Int64,
			command String,
			ts DateTime
		) ENGINE = MergeTree()
		ORDER BY ts
	`)
}

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*ClickHouseStats, func()) {
	ctx := context.Background()

	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	db, err := NewClickHouseStats(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")

	err = runMigrations(ctx, db)
	require.NoError(t, err, "Failed to run migrations")

	cleanup := func() {
		db.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestClickHouseStats_SummaryAndKnownUsers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ClickHouse integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	events := []models.CommandEvent{
		{UserID: 1, Command: "/start", At: now},
		{UserID: 1, Command: "/coin", At: now},
		{UserID: 2, Command: "/coin", At: now},
		{UserID: 3, Command: "/about", At: now.Add(-48 * time.Hour)},
	}
	for _, ev := range events {
		require.NoError(t, db.RecordCommand(ctx, ev))
	}

	summary, err := db.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalUsers)
	assert.Equal(t, 2, summary.CoinRequests)
	assert.Equal(t, 3, summary.CommandsToday)

	users, err := db.KnownUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, users)
}
