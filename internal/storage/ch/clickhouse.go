package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"fpibot/internal/models"
)

// ClickHouseStats stores the command usage log in ClickHouse.
type ClickHouseStats struct {
	conn clickhouse.Conn
}

// NewClickHouseStats creates a new ClickHouse connection for usage statistics.
func NewClickHouseStats(host string, port int, database, user, password string, useTLS bool) (*ClickHouseStats, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseStats{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseStats) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	return nil
}

// RecordCommand appends one handled command to the usage log.
func (db *ClickHouseStats) RecordCommand(ctx context.Context, ev models.CommandEvent) error {
	err := db.conn.Exec(ctx, `INSERT INTO bot_commands (user_id, command, ts) VALUES (?, ?, ?)`,
		ev.UserID, ev.Command, ev.At)
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}
	return nil
}

// Summary aggregates the command log into the /stat report figures.
func (db *ClickHouseStats) Summary(ctx context.Context, now time.Time) (models.UsageSummary, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var summary models.UsageSummary
	row := db.conn.QueryRow(ctx, `
		SELECT
			toInt64(uniqExact(user_id)),
			toInt64(countIf(command = '/coin')),
			toInt64(countIf(ts >= ?))
		FROM bot_commands`, dayStart)

	var totalUsers, coinRequests, commandsToday int64
	if err := row.Scan(&totalUsers, &coinRequests, &commandsToday); err != nil {
		return models.UsageSummary{}, fmt.Errorf("failed to aggregate usage stats: %w", err)
	}

	summary.TotalUsers = int(totalUsers)
	summary.CoinRequests = int(coinRequests)
	summary.CommandsToday = int(commandsToday)
	return summary, nil
}

// KnownUsers returns every distinct user id seen in the command log.
func (db *ClickHouseStats) KnownUsers(ctx context.Context) ([]int64, error) {
	rows, err := db.conn.Query(ctx, `SELECT DISTINCT user_id FROM bot_commands ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list known users: %w", err)
	}
	defer rows.Close()

	var users []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	return users, nil
}

// Close closes the database connection
func (db *ClickHouseStats) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
