package match

import (
	"strings"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// KeywordWeight is one entry of the weighted-term table. The weights are
// hand-tuned configuration data, not algorithmic constants.
type KeywordWeight struct {
	Term   string  `yaml:"term"`
	Weight float64 `yaml:"weight"`
}

// KeywordScore sums the weights of every configured term present as a
// substring in the (already lower-cased) text, capped at 1.0.
func (m *Matcher) KeywordScore(text string) float64 {
	score := 0.0
	for _, kw := range m.cfg.KeywordWeights {
		if kw.Term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw.Term)) {
			score += kw.Weight
		}
	}
	if score > 1 {
		return 1
	}
	return score
}

// Categorize buckets a posting by title+description patterns. The order
// matters: the more specific roles are checked first.
func Categorize(title, description string) domain.Category {
	text := strings.ToLower(title + " " + description)

	switch {
	case containsAny(text, []string{"ml engineer", "machine learning engineer", "deep learning"}):
		return domain.CategoryMLEngineering
	case containsAny(text, []string{"data scientist", "research scientist", "applied scientist"}):
		return domain.CategoryDataScience
	case containsAny(text, []string{"data engineer", "etl", "data pipeline", "spark", "airflow"}):
		return domain.CategoryDataEngineering
	case containsAny(text, []string{"power bi", "tableau", "bi developer", "business intelligence"}):
		return domain.CategoryBIDeveloper
	case containsAny(text, []string{"data analyst", "business analyst", "analytics"}):
		return domain.CategoryAnalytics
	}
	return domain.CategoryOther
}
