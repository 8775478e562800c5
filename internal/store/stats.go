package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// SaveScanStats appends one row of scan history.
func (d *DB) SaveScanStats(ctx context.Context, s *domain.ScanStats) error {
	errsJSON, _ := json.Marshal(s.Errors)
	if s.Errors == nil {
		errsJSON = []byte("[]")
	}
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO scan_history (
  started_at, duration_seconds, total_fetched, total_new, total_matched,
  total_notified, best_score, avg_score, errors
) VALUES (?,?,?,?,?,?,?,?,?);`,
		s.StartedAt.UTC().Format(time.RFC3339), s.Duration().Seconds(),
		s.TotalFetched, s.TotalNew, s.TotalMatched, s.TotalNotified,
		s.BestScore, s.AvgScore, string(errsJSON))
	if err != nil {
		return fmt.Errorf("save scan stats: %w", err)
	}
	return nil
}

// RecentScans returns the last n scan summaries, newest first.
func (d *DB) RecentScans(ctx context.Context, n int) ([]domain.ScanStats, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT started_at, total_fetched, total_new, total_matched, total_notified,
  best_score, avg_score, errors
FROM scan_history
ORDER BY id DESC
LIMIT ?;`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScanStats
	for rows.Next() {
		var s domain.ScanStats
		var startedAt, errsJSON string
		if err := rows.Scan(&startedAt, &s.TotalFetched, &s.TotalNew,
			&s.TotalMatched, &s.TotalNotified, &s.BestScore, &s.AvgScore,
			&errsJSON); err != nil {
			return nil, err
		}
		s.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		_ = json.Unmarshal([]byte(errsJSON), &s.Errors)
		out = append(out, s)
	}
	return out, rows.Err()
}
