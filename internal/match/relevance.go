package match

import "strings"

// Title penalties applied by the relevance check. Exclusions (wrong role,
// seniority too high) hit harder than a merely off-topic title.
const (
	excludedTitlePenalty  = -0.5
	offTargetTitlePenalty = -0.3
)

// RelevanceResult carries the verdict plus the additive score penalty.
type RelevanceResult struct {
	Relevant bool
	Penalty  float64
}

// CheckRelevance inspects the title only: excluded terms veto the posting
// outright, and a title with no required domain term is off-target. The
// description is deliberately ignored here so a posting that merely
// mentions a senior stakeholder in the body is not over-filtered.
func (m *Matcher) CheckRelevance(title string) RelevanceResult {
	lower := strings.ToLower(title)

	for _, excl := range m.cfg.ExcludeKeywords {
		if excl != "" && strings.Contains(lower, excl) {
			return RelevanceResult{Relevant: false, Penalty: excludedTitlePenalty}
		}
	}

	for _, req := range m.cfg.RequiredKeywords {
		if req != "" && strings.Contains(lower, req) {
			return RelevanceResult{Relevant: true}
		}
	}

	return RelevanceResult{Relevant: false, Penalty: offTargetTitlePenalty}
}
