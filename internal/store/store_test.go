package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "watchdog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func samplePosting(fp, title string, score float64) domain.ProcessedPosting {
	return domain.ProcessedPosting{
		Posting: domain.Posting{
			Title:     title,
			Company:   "Acme",
			Location:  "Berlin",
			Source:    "remoteok",
			Posted:    "2 hours ago",
			FetchedAt: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		},
		Fingerprint:    fp,
		Status:         domain.StatusDetected,
		Category:       domain.CategoryDataEngineering,
		CombinedScore:  score,
		IsTargetRegion: true,
		City:           "Berlin",
		AgeHours:       2,
		ProcessedAt:    time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestInsertAndDuplicate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ok, err := db.Insert(ctx, samplePosting("fp1", "Data Engineer", 0.8))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Insert(ctx, samplePosting("fp1", "Data Engineer", 0.9))
	require.NoError(t, err)
	assert.False(t, ok, "duplicate fingerprint must be ignored")

	known, err := db.KnownFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, known.Cardinality())
	assert.True(t, known.Contains("fp1"))

	isKnown, err := db.IsKnown(ctx, "fp1")
	require.NoError(t, err)
	assert.True(t, isKnown)
	isKnown, err = db.IsKnown(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, isKnown)
}

func TestUpdateStatusNotified(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Insert(ctx, samplePosting("fp1", "Data Engineer", 0.8))
	require.NoError(t, err)

	require.NoError(t, db.UpdateStatus(ctx, "fp1", domain.StatusNotified))

	notified, err := db.NotifiedFingerprints(ctx)
	require.NoError(t, err)
	assert.True(t, notified.Contains("fp1"))

	got, err := db.PostingsByStatus(ctx, domain.StatusNotified, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].NotifiedAt)
	assert.WithinDuration(t, time.Now(), *got[0].NotifiedAt, time.Minute)

	assert.Error(t, db.UpdateStatus(ctx, "fp1", domain.Status("bogus")))
}

func TestTopMatchesOrdering(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	inserted, failed := db.InsertBatch(ctx, []domain.ProcessedPosting{
		samplePosting("fp1", "Data Engineer", 0.5),
		samplePosting("fp2", "ML Engineer", 0.9),
		samplePosting("fp3", "Data Analyst", 0.3),
	})
	assert.Equal(t, 3, inserted)
	assert.Zero(t, failed)

	got, err := db.TopMatches(ctx, 0.4, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fp2", got[0].Fingerprint)
	assert.Equal(t, "fp1", got[1].Fingerprint)
}

func TestUnknownAgeRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p := samplePosting("fp1", "Data Engineer", 0.8)
	p.AgeHours = math.Inf(1)
	_, err := db.Insert(ctx, p)
	require.NoError(t, err)

	got, err := db.PostingsByStatus(ctx, domain.StatusDetected, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, math.IsInf(got[0].AgeHours, 1))
}

func TestExperienceFitRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	fit := true
	p := samplePosting("fp1", "Data Engineer", 0.8)
	p.ExperienceFit = &fit
	p.ExperienceRequired = "2 years"
	p.FitReason = "junior signal"
	_, err := db.Insert(ctx, p)
	require.NoError(t, err)

	p2 := samplePosting("fp2", "Staff Engineer", 0.7)
	_, err = db.Insert(ctx, p2)
	require.NoError(t, err)

	got, err := db.PostingsByStatus(ctx, domain.StatusDetected, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byFP := map[string]domain.ProcessedPosting{}
	for _, g := range got {
		byFP[g.Fingerprint] = g
	}
	require.NotNil(t, byFP["fp1"].ExperienceFit)
	assert.True(t, *byFP["fp1"].ExperienceFit)
	assert.Equal(t, "2 years", byFP["fp1"].ExperienceRequired)
	assert.Nil(t, byFP["fp2"].ExperienceFit)
}

func TestCleanupOldPostings(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	old := samplePosting("old", "Data Engineer", 0.8)
	old.ProcessedAt = time.Now().UTC().Add(-40 * 24 * time.Hour)
	_, err := db.Insert(ctx, old)
	require.NoError(t, err)

	oldNotified := samplePosting("kept", "ML Engineer", 0.9)
	oldNotified.ProcessedAt = old.ProcessedAt
	_, err = db.Insert(ctx, oldNotified)
	require.NoError(t, err)
	require.NoError(t, db.UpdateStatus(ctx, "kept", domain.StatusNotified))

	fresh := samplePosting("fresh", "Data Analyst", 0.5)
	fresh.ProcessedAt = time.Now().UTC()
	_, err = db.Insert(ctx, fresh)
	require.NoError(t, err)

	n, err := db.CleanupOldPostings(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := db.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.StatusExpired])
	assert.Equal(t, 1, counts[domain.StatusNotified])
	assert.Equal(t, 1, counts[domain.StatusDetected])
}

func TestAPIUsageCounter(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	calls, err := db.APIUsage(ctx, "serpapi", now)
	require.NoError(t, err)
	assert.Zero(t, calls)

	require.NoError(t, db.IncrementAPIUsage(ctx, "serpapi", now))
	require.NoError(t, db.IncrementAPIUsage(ctx, "serpapi", now))

	calls, err = db.APIUsage(ctx, "serpapi", now)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// A new month starts a fresh counter.
	calls, err = db.APIUsage(ctx, "serpapi", now.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestScanHistoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := domain.NewScanStats(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	s.CompletedAt = s.StartedAt.Add(90 * time.Second)
	s.TotalFetched = 120
	s.TotalNew = 14
	s.TotalMatched = 5
	s.TotalNotified = 3
	s.BestScore = 0.91
	s.AvgScore = 0.55
	s.Errors = []string{"himalayas: timeout"}
	require.NoError(t, db.SaveScanStats(ctx, s))

	got, err := db.RecentScans(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 120, got[0].TotalFetched)
	assert.Equal(t, 3, got[0].TotalNotified)
	assert.Equal(t, []string{"himalayas: timeout"}, got[0].Errors)
}
