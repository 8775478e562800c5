package domain

import "time"

// Status tracks a posting through the pipeline. Transitions are
// one-directional within a run: detected/filtered are set by the matcher,
// notified by dispatch, expired by the retention sweep.
type Status string

const (
	StatusDetected Status = "detected"
	StatusFiltered Status = "filtered"
	StatusNotified Status = "notified"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDetected, StatusFiltered, StatusNotified, StatusExpired:
		return true
	}
	return false
}

type Category string

const (
	CategoryDataScience     Category = "Data Science"
	CategoryAnalytics       Category = "Data Analytics"
	CategoryMLEngineering   Category = "ML Engineering"
	CategoryBIDeveloper     Category = "BI Developer"
	CategoryDataEngineering Category = "Data Engineering"
	CategoryOther           Category = "Other"
)

// ProcessedPosting is the canonical record after the matching pass.
// Scores are bounded [0,1]; AgeHours may be +Inf for unparseable or
// too-old postings. ExperienceFit stays nil until the experience filter
// has looked at the posting.
type ProcessedPosting struct {
	Posting

	Fingerprint string
	Status      Status
	Category    Category

	SemanticScore float64
	KeywordScore  float64
	CombinedScore float64

	IsTargetRegion bool
	IsRemote       bool
	City           string
	AgeHours       float64

	ExperienceFit      *bool
	ExperienceRequired string
	FitReason          string

	ProcessedAt time.Time
	NotifiedAt  *time.Time
}
