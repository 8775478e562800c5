package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func monthKey(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// APIUsage returns the number of calls recorded for an API in the
// current month.
func (d *DB) APIUsage(ctx context.Context, apiName string, now time.Time) (int, error) {
	var calls int
	err := d.Pool.QueryRowContext(ctx,
		`SELECT calls FROM api_usage WHERE api_name = ? AND month = ?;`,
		apiName, monthKey(now)).Scan(&calls)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("api usage %s: %w", apiName, err)
	}
	return calls, nil
}

// IncrementAPIUsage bumps the monthly counter for an API. The upsert
// keeps the increment atomic under concurrent scans.
func (d *DB) IncrementAPIUsage(ctx context.Context, apiName string, now time.Time) error {
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO api_usage (api_name, month, calls) VALUES (?, ?, 1)
ON CONFLICT(api_name, month) DO UPDATE SET calls = calls + 1;`,
		apiName, monthKey(now))
	if err != nil {
		return fmt.Errorf("increment api usage %s: %w", apiName, err)
	}
	return nil
}
