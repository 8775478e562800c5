package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// Unknown-age postings carry +Inf in memory; sqlite REAL has no Inf, so
// they are stored as -1 and restored on read.
const unknownAgeSentinel = -1.0

func encodeAge(h float64) float64 {
	if math.IsInf(h, 1) {
		return unknownAgeSentinel
	}
	return h
}

func decodeAge(h float64) float64 {
	if h == unknownAgeSentinel {
		return math.Inf(1)
	}
	return h
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Insert stores a posting, ignoring duplicates. The bool reports whether
// a new row was written.
func (d *DB) Insert(ctx context.Context, p domain.ProcessedPosting) (bool, error) {
	var fit any
	if p.ExperienceFit != nil {
		fit = boolToInt(*p.ExperienceFit)
	}
	var notified any
	if p.NotifiedAt != nil {
		notified = p.NotifiedAt.UTC().Format(time.RFC3339)
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO postings (
  fingerprint, title, company, location, description, url, source, posted,
  salary, job_type, status, category, semantic_score, keyword_score,
  combined_score, is_target_region, is_remote, city, age_hours,
  experience_fit, experience_required, fit_reason,
  fetched_at, processed_at, notified_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		p.Fingerprint, p.Title, p.Company, p.Location, p.Description, p.URL,
		p.Source, p.Posted, p.Salary, p.JobType,
		string(p.Status), string(p.Category),
		p.SemanticScore, p.KeywordScore, p.CombinedScore,
		boolToInt(p.IsTargetRegion), boolToInt(p.IsRemote), p.City,
		encodeAge(p.AgeHours), fit, p.ExperienceRequired, p.FitReason,
		p.FetchedAt.UTC().Format(time.RFC3339),
		p.ProcessedAt.UTC().Format(time.RFC3339), notified)
	if err != nil {
		return false, fmt.Errorf("insert posting %s: %w", p.Fingerprint, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertBatch inserts all postings, counting successes and failures.
// Duplicates count as neither.
func (d *DB) InsertBatch(ctx context.Context, postings []domain.ProcessedPosting) (inserted, failed int) {
	for _, p := range postings {
		ok, err := d.Insert(ctx, p)
		if err != nil {
			failed++
			continue
		}
		if ok {
			inserted++
		}
	}
	return inserted, failed
}

// KnownFingerprints loads the fingerprints of every stored posting.
func (d *DB) KnownFingerprints(ctx context.Context) (mapset.Set[string], error) {
	return d.fingerprintSet(ctx, `SELECT fingerprint FROM postings;`)
}

// NotifiedFingerprints loads the fingerprints already sent to the user.
func (d *DB) NotifiedFingerprints(ctx context.Context) (mapset.Set[string], error) {
	return d.fingerprintSet(ctx, `SELECT fingerprint FROM postings WHERE status = 'notified';`)
}

func (d *DB) fingerprintSet(ctx context.Context, query string) (mapset.Set[string], error) {
	rows, err := d.Pool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := mapset.NewThreadUnsafeSet[string]()
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, err
		}
		set.Add(fp)
	}
	return set, rows.Err()
}

// IsKnown reports whether a fingerprint has been seen before.
func (d *DB) IsKnown(ctx context.Context, fingerprint string) (bool, error) {
	var one int
	err := d.Pool.QueryRowContext(ctx,
		`SELECT 1 FROM postings WHERE fingerprint = ? LIMIT 1;`, fingerprint).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateStatus moves a posting to a new status, stamping notified_at on
// the transition to notified.
func (d *DB) UpdateStatus(ctx context.Context, fingerprint string, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	var err error
	if status == domain.StatusNotified {
		_, err = d.Pool.ExecContext(ctx,
			`UPDATE postings SET status = ?, notified_at = ? WHERE fingerprint = ?;`,
			string(status), time.Now().UTC().Format(time.RFC3339), fingerprint)
	} else {
		_, err = d.Pool.ExecContext(ctx,
			`UPDATE postings SET status = ? WHERE fingerprint = ?;`,
			string(status), fingerprint)
	}
	if err != nil {
		return fmt.Errorf("update status %s: %w", fingerprint, err)
	}
	return nil
}

// PostingsByStatus returns stored postings in the given status, best
// score first.
func (d *DB) PostingsByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.ProcessedPosting, error) {
	return d.queryPostings(ctx, `
SELECT fingerprint, title, company, location, description, url, source, posted,
  salary, job_type, status, category, semantic_score, keyword_score,
  combined_score, is_target_region, is_remote, city, age_hours,
  experience_fit, experience_required, fit_reason,
  fetched_at, processed_at, notified_at
FROM postings
WHERE status = ?
ORDER BY combined_score DESC
LIMIT ?;`, string(status), limit)
}

// TopMatches returns the best-scoring postings at or above minScore,
// regardless of status.
func (d *DB) TopMatches(ctx context.Context, minScore float64, limit int) ([]domain.ProcessedPosting, error) {
	return d.queryPostings(ctx, `
SELECT fingerprint, title, company, location, description, url, source, posted,
  salary, job_type, status, category, semantic_score, keyword_score,
  combined_score, is_target_region, is_remote, city, age_hours,
  experience_fit, experience_required, fit_reason,
  fetched_at, processed_at, notified_at
FROM postings
WHERE combined_score >= ?
ORDER BY combined_score DESC
LIMIT ?;`, minScore, limit)
}

func (d *DB) queryPostings(ctx context.Context, query string, args ...any) ([]domain.ProcessedPosting, error) {
	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProcessedPosting
	for rows.Next() {
		var p domain.ProcessedPosting
		var status, category, fetchedAt, processedAt string
		var fit sql.NullInt64
		var notifiedAt sql.NullString
		if err := rows.Scan(
			&p.Fingerprint, &p.Title, &p.Company, &p.Location, &p.Description,
			&p.URL, &p.Source, &p.Posted, &p.Salary, &p.JobType,
			&status, &category,
			&p.SemanticScore, &p.KeywordScore, &p.CombinedScore,
			&p.IsTargetRegion, &p.IsRemote, &p.City, &p.AgeHours,
			&fit, &p.ExperienceRequired, &p.FitReason,
			&fetchedAt, &processedAt, &notifiedAt,
		); err != nil {
			return nil, err
		}
		p.Status = domain.Status(status)
		p.Category = domain.Category(category)
		p.AgeHours = decodeAge(p.AgeHours)
		if fit.Valid {
			b := fit.Int64 != 0
			p.ExperienceFit = &b
		}
		p.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		p.ProcessedAt, _ = time.Parse(time.RFC3339, processedAt)
		if notifiedAt.Valid {
			if t, err := time.Parse(time.RFC3339, notifiedAt.String); err == nil {
				p.NotifiedAt = &t
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CleanupOldPostings expires postings older than the retention window.
// Notified postings are kept as a record of what the user has seen.
func (d *DB) CleanupOldPostings(ctx context.Context, days int) (int64, error) {
	res, err := d.Pool.ExecContext(ctx, fmt.Sprintf(`
UPDATE postings SET status = 'expired'
WHERE status NOT IN ('notified', 'expired')
  AND processed_at < datetime('now', '-%d days');`, days))
	if err != nil {
		return 0, fmt.Errorf("cleanup old postings: %w", err)
	}
	return res.RowsAffected()
}

// CountByStatus reports how many postings sit in each status.
func (d *DB) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := d.Pool.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM postings GROUP BY status;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Status]int)
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[domain.Status(s)] = n
	}
	return out, rows.Err()
}
