// Package match scores postings against a candidate profile. It combines
// a semantic-similarity score (profile vs. posting embeddings) with a
// weighted-keyword score, applies relevance and location penalties, and
// classifies each posting into a status and category.
package match

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/freshness"
)

const (
	semanticWeight = 0.6
	keywordWeight  = 0.4
	// Heavy discount for postings outside the target region.
	offRegionFactor = 0.3
	// Texts shorter than this carry too little signal to embed.
	minEmbedTextLen = 50
	// Keyword score stands in for the semantic score when embeddings are
	// unavailable, discounted since substrings are a cruder signal.
	keywordProxyFactor = 0.8
)

// CityAlias maps a substring to a canonical city name.
type CityAlias struct {
	Match string `yaml:"match"`
	Name  string `yaml:"name"`
}

// Config carries the tunable tables and thresholds for matching. All of
// it is configuration data loaded from YAML.
type Config struct {
	RequiredKeywords   []string
	ExcludeKeywords    []string
	TargetLocations    []string
	ExcludeLocations   []string
	RestrictionPhrases []string
	RemoteTerms        []string
	Cities             []CityAlias
	KeywordWeights     []KeywordWeight
	Profiles           []string
	MinScore           float64
	MaxAgeHours        float64
}

// Matcher owns the matching state for one process: profile embeddings
// computed once, a posting-embedding cache keyed by text hash, and a
// latched embedding-failure flag so a dead backend is not retried per
// posting. Construct once and share; all methods are safe for concurrent
// use.
type Matcher struct {
	cfg      Config
	embedder Embedder

	mu            sync.Mutex
	profileEmbs   [][]float32
	profilesReady bool
	embedFailed   bool
	postingEmbeds map[string][]float32
	failureLogged bool

	now func() time.Time
}

func New(cfg Config, embedder Embedder) *Matcher {
	return &Matcher{
		cfg:           cfg,
		embedder:      embedder,
		postingEmbeds: make(map[string][]float32),
		now:           time.Now,
	}
}

// ResetEmbedder clears the latched failure state so the next match
// attempts embeddings again.
func (m *Matcher) ResetEmbedder() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedFailed = false
	m.failureLogged = false
	m.profilesReady = false
	m.profileEmbs = nil
}

// Match scores and classifies a single posting. It never fails: embedding
// trouble degrades to a keyword proxy score.
func (m *Matcher) Match(ctx context.Context, p domain.Posting) domain.ProcessedPosting {
	text := strings.ToLower(p.Title + " " + p.Description)
	now := m.now()

	ageHours := freshness.AgeHours(p.Posted, now)
	rel := m.CheckRelevance(p.Title)
	loc := m.CheckLocation(p.Location, p.Description)
	kwScore := m.KeywordScore(text)

	semScore := 0.0
	if len(text) > minEmbedTextLen {
		if s, ok := m.semanticScore(ctx, text); ok {
			semScore = s
		} else {
			semScore = kwScore * keywordProxyFactor
		}
	}

	combined := semScore*semanticWeight + kwScore*keywordWeight
	combined += rel.Penalty
	if combined < 0 {
		combined = 0
	}
	if !loc.TargetRegion {
		combined *= offRegionFactor
	}
	if combined > 1 {
		combined = 1
	}

	status := domain.StatusDetected
	switch {
	case !loc.TargetRegion:
		status = domain.StatusFiltered
	case !rel.Relevant:
		status = domain.StatusFiltered
	case ageHours > m.cfg.MaxAgeHours:
		status = domain.StatusFiltered
	case combined < m.cfg.MinScore:
		status = domain.StatusFiltered
	}

	return domain.ProcessedPosting{
		Posting:        p,
		Fingerprint:    domain.Fingerprint(p.Title, p.Company, p.Source),
		Status:         status,
		Category:       Categorize(p.Title, p.Description),
		SemanticScore:  semScore,
		KeywordScore:   kwScore,
		CombinedScore:  combined,
		IsTargetRegion: loc.TargetRegion,
		IsRemote:       loc.Remote,
		City:           loc.City,
		AgeHours:       ageHours,
		ProcessedAt:    now,
	}
}

// MatchAll scores a batch sequentially; the only shared state is the
// read-only embedding caches.
func (m *Matcher) MatchAll(ctx context.Context, postings []domain.Posting) []domain.ProcessedPosting {
	out := make([]domain.ProcessedPosting, 0, len(postings))
	for _, p := range postings {
		out = append(out, m.Match(ctx, p))
	}
	return out
}

// semanticScore returns the max cosine similarity between the posting
// text and the candidate profiles. ok=false means embeddings are
// unavailable and the caller should fall back to the keyword proxy.
func (m *Matcher) semanticScore(ctx context.Context, text string) (float64, bool) {
	if m.embedder == nil || len(m.cfg.Profiles) == 0 {
		return 0, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.embedFailed {
		return 0, false
	}

	if !m.profilesReady {
		for _, profile := range m.cfg.Profiles {
			emb, err := m.embedder.Embed(ctx, profile)
			if err != nil {
				m.latchFailure(err)
				return 0, false
			}
			m.profileEmbs = append(m.profileEmbs, emb)
		}
		m.profilesReady = true
	}

	key := textHash(text)
	emb, ok := m.postingEmbeds[key]
	if !ok {
		var err error
		emb, err = m.embedder.Embed(ctx, clipText(text, 5000))
		if err != nil {
			m.latchFailure(err)
			return 0, false
		}
		m.postingEmbeds[key] = emb
	}

	best := 0.0
	for _, pe := range m.profileEmbs {
		if s := cosine(emb, pe); s > best {
			best = s
		}
	}
	if best < 0 {
		best = 0
	}
	if best > 1 {
		best = 1
	}
	return best, true
}

func (m *Matcher) latchFailure(err error) {
	m.embedFailed = true
	if !m.failureLogged {
		log.Printf("[match] embedding backend unavailable, using keyword proxy: %v", err)
		m.failureLogged = true
	}
}

func textHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func clipText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
