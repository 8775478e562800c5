package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

type stubEmbedder struct {
	vecs  map[string][]float32
	def   []float32
	err   error
	calls int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vecs[text]; ok {
		return v, nil
	}
	return s.def, nil
}

func testConfig() Config {
	return Config{
		RequiredKeywords:   []string{"data", "analytics", "machine learning", "engineer"},
		ExcludeKeywords:    []string{"sales", "recruiter", "account executive"},
		TargetLocations:    []string{"germany", "berlin", "munich", "european union", "emea"},
		ExcludeLocations:   []string{"usa", "united states", "us only"},
		RestrictionPhrases: []string{"us citizens only", "must be located in the us"},
		RemoteTerms:        []string{"remote", "work from home", "anywhere"},
		Cities: []CityAlias{
			{Match: "berlin", Name: "Berlin"},
			{Match: "münchen", Name: "Munich"},
			{Match: "munich", Name: "Munich"},
		},
		KeywordWeights: []KeywordWeight{
			{Term: "python", Weight: 0.3},
			{Term: "sql", Weight: 0.3},
			{Term: "airflow", Weight: 0.2},
			{Term: "data engineer", Weight: 0.4},
		},
		Profiles:    []string{"data engineer with python and sql"},
		MinScore:    0.35,
		MaxAgeHours: 72,
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestMatcher(cfg Config, e Embedder) *Matcher {
	m := New(cfg, e)
	m.now = fixedNow
	return m
}

func TestMatchExcludedTitleFiltered(t *testing.T) {
	m := newTestMatcher(testConfig(), nil)
	p := m.Match(context.Background(), domain.Posting{
		Title:       "Senior Sales Director",
		Company:     "Acme",
		Location:    "Berlin, Germany",
		Description: "Lead our sales org.",
		Posted:      "2 hours ago",
		Source:      "remoteok",
	})
	assert.Equal(t, domain.StatusFiltered, p.Status)
	assert.Equal(t, 0.0, p.CombinedScore)
}

func TestMatchMissingLocationIsLenient(t *testing.T) {
	m := newTestMatcher(testConfig(), nil)
	p := m.Match(context.Background(), domain.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Location:    "",
		Description: "Build pipelines with python, sql and airflow on our data platform.",
		Posted:      "3 hours ago",
		Source:      "remoteok",
	})
	assert.True(t, p.IsTargetRegion)
	assert.Equal(t, domain.StatusDetected, p.Status)
}

func TestMatchOffRegionDiscount(t *testing.T) {
	m := newTestMatcher(testConfig(), nil)
	p := m.Match(context.Background(), domain.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Location:    "New York, USA",
		Description: "Build pipelines with python, sql and airflow on our data platform.",
		Posted:      "3 hours ago",
		Source:      "remoteok",
	})
	assert.False(t, p.IsTargetRegion)
	assert.Equal(t, domain.StatusFiltered, p.Status)
	// After the off-region discount the score can never clear 0.3.
	assert.LessOrEqual(t, p.CombinedScore, 0.3)
}

func TestMatchStaleFiltered(t *testing.T) {
	m := newTestMatcher(testConfig(), nil)
	p := m.Match(context.Background(), domain.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Location:    "Berlin",
		Description: "Build pipelines with python, sql and airflow on our data platform.",
		Posted:      "2 weeks ago",
		Source:      "remoteok",
	})
	assert.True(t, p.IsTargetRegion)
	assert.Equal(t, domain.StatusFiltered, p.Status)
}

func TestMatchSemanticScoring(t *testing.T) {
	cfg := testConfig()
	e := &stubEmbedder{def: []float32{1, 0, 0}}
	m := newTestMatcher(cfg, e)
	p := m.Match(context.Background(), domain.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Location:    "Berlin, Germany",
		Description: "Build pipelines with python, sql and airflow on our data platform.",
		Posted:      "3 hours ago",
		Source:      "remoteok",
	})
	// Identical vectors: semantic score is 1.0.
	assert.InDelta(t, 1.0, p.SemanticScore, 1e-9)
	assert.Equal(t, domain.StatusDetected, p.Status)
	assert.Equal(t, "Berlin", p.City)
	assert.LessOrEqual(t, p.CombinedScore, 1.0)
}

func TestMatchEmbeddingFailureLatches(t *testing.T) {
	e := &stubEmbedder{err: errors.New("quota exceeded")}
	m := newTestMatcher(testConfig(), e)
	long := domain.Posting{
		Title:       "Data Engineer",
		Company:     "Acme",
		Location:    "Berlin",
		Description: "Build pipelines with python, sql and airflow on our data platform.",
		Posted:      "3 hours ago",
		Source:      "remoteok",
	}

	p := m.Match(context.Background(), long)
	require.Positive(t, e.calls)
	callsAfterFirst := e.calls

	// Semantic score falls back to the keyword proxy.
	assert.InDelta(t, p.KeywordScore*0.8, p.SemanticScore, 1e-9)

	m.Match(context.Background(), long)
	assert.Equal(t, callsAfterFirst, e.calls, "failure should latch, no further embed calls")

	e.err = nil
	e.def = []float32{1, 0}
	m.ResetEmbedder()
	p = m.Match(context.Background(), long)
	assert.Greater(t, e.calls, callsAfterFirst)
	assert.InDelta(t, 1.0, p.SemanticScore, 1e-9)
}

func TestMatchShortTextSkipsEmbedding(t *testing.T) {
	e := &stubEmbedder{def: []float32{1, 0}}
	m := newTestMatcher(testConfig(), e)
	p := m.Match(context.Background(), domain.Posting{
		Title:   "Data Engineer",
		Company: "Acme",
		Posted:  "3 hours ago",
		Source:  "remoteok",
	})
	assert.Zero(t, e.calls)
	assert.Equal(t, 0.0, p.SemanticScore)
}

func TestMatchAllAndFingerprint(t *testing.T) {
	m := newTestMatcher(testConfig(), nil)
	out := m.MatchAll(context.Background(), []domain.Posting{
		{Title: "Data Engineer", Company: "Acme", Source: "remoteok", Posted: "1 hour ago"},
		{Title: "Data Engineer", Company: "Acme", Source: "jobicy", Posted: "1 hour ago"},
	})
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].Fingerprint, out[1].Fingerprint, "source is part of the fingerprint")
	assert.Len(t, out[0].Fingerprint, 16)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		title string
		want  domain.Category
	}{
		{"Machine Learning Engineer", domain.CategoryMLEngineering},
		{"Senior Data Scientist", domain.CategoryDataScience},
		{"Data Engineer", domain.CategoryDataEngineering},
		{"BI Developer", domain.CategoryBIDeveloper},
		{"Data Analyst", domain.CategoryAnalytics},
		{"Backend Developer", domain.CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.title, ""), tt.title)
	}
}

func TestKeywordScoreCapped(t *testing.T) {
	m := newTestMatcher(testConfig(), nil)
	s := m.KeywordScore("data engineer with python sql airflow")
	assert.Equal(t, 1.0, s)
	assert.Equal(t, 0.0, m.KeywordScore("barista wanted"))
}
