package domain

import "time"

// Batch is one source's contribution to a run. An error string and an
// empty batch are treated identically downstream: zero contribution.
type Batch struct {
	Source   string
	Postings []Posting
	Duration time.Duration
	Err      string
}

// ScanStats aggregates counters for one pipeline run. Finalized once at
// run end and persisted as an audit row; never mutated afterwards.
type ScanStats struct {
	StartedAt   time.Time
	CompletedAt time.Time

	TotalFetched       int
	TotalNew           int
	TotalMatched       int
	FilteredLocation   int
	FilteredRelevance  int
	FilteredExperience int
	TotalNotified      int
	InsertFailures     int

	BestScore float64
	AvgScore  float64

	SourceCounts map[string]int
	Errors       []string
}

func NewScanStats(now time.Time) *ScanStats {
	return &ScanStats{
		StartedAt:    now,
		SourceCounts: make(map[string]int),
	}
}

func (s *ScanStats) Duration() time.Duration {
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
