package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes list fields and checks the
// values that would otherwise fail deep inside a scan.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Keywords = trimList(out.Search.Keywords)
	out.Matching.RequiredKeywords = trimList(out.Matching.RequiredKeywords)
	out.Matching.ExcludeKeywords = trimList(out.Matching.ExcludeKeywords)
	out.Locations.Target = trimList(out.Locations.Target)
	out.Locations.Exclude = trimList(out.Locations.Exclude)
	out.Locations.RestrictionPhrases = trimList(out.Locations.RestrictionPhrases)
	out.Locations.RemoteTerms = trimList(out.Locations.RemoteTerms)

	if out.App.DataDir == "" {
		res.addErr("app.data_dir must not be empty")
	}

	if out.Search.MaxAgeHours <= 0 {
		res.addErr("search.max_age_hours must be > 0")
	}
	if out.Search.MaxConcurrentFetches <= 0 {
		res.addErr("search.max_concurrent_fetches must be > 0")
	}
	if out.Search.TopMatches <= 0 {
		res.addErr("search.top_matches must be > 0")
	}
	if len(out.Search.Keywords) == 0 {
		res.addWarn("search.keywords is empty; sources will return their full feeds.")
	}

	if out.Matching.MinScore < 0 || out.Matching.MinScore > 1 {
		res.addErr("matching.min_score must be within [0, 1], got %g", out.Matching.MinScore)
	}
	if len(out.Matching.Profiles) == 0 {
		res.addWarn("matching.profiles is empty; semantic scoring is disabled.")
	}
	for _, kw := range out.Matching.KeywordWeights {
		if kw.Weight < 0 || kw.Weight > 1 {
			res.addErr("matching.keyword_weights: weight for %q must be within [0, 1]", kw.Term)
		}
	}

	if len(out.Locations.Target) == 0 {
		res.addWarn("locations.target is empty; every posting counts as off-region and gets discounted.")
	}

	s := out.Sources
	anySource := s.RemoteOK.Enabled || s.Arbeitnow.Enabled || s.Jobicy.Enabled ||
		s.Himalayas.Enabled || s.WeWorkRemotely.Enabled || s.Greenhouse.Enabled || s.SerpAPI.Enabled
	if !anySource {
		res.addErr("no sources enabled")
	}
	if s.Greenhouse.Enabled && len(s.Greenhouse.Boards) == 0 {
		res.addErr("sources.greenhouse.boards is required when greenhouse is enabled")
	}
	if s.SerpAPI.Enabled && s.SerpAPI.MonthlyLimit <= 0 {
		res.addErr("sources.serpapi.monthly_limit must be > 0 when serpapi is enabled")
	}

	if out.Notify.Telegram.Enabled && out.Notify.Telegram.ChatID == 0 {
		res.addErr("notify.telegram.chat_id is required when telegram is enabled")
	}
	if out.Notify.Email.Enabled {
		if strings.TrimSpace(out.Notify.Email.SMTPServer) == "" {
			res.addErr("notify.email.smtp_server is required when email is enabled")
		}
		if out.Notify.Email.SMTPPort == 0 {
			res.addErr("notify.email.smtp_port is required when email is enabled")
		}
		if strings.TrimSpace(out.Notify.Email.ToEmail) == "" {
			res.addErr("notify.email.to_email is required when email is enabled")
		}
	}

	if out.Retention.Days <= 0 {
		res.addWarn("retention.days is not set; old postings are kept forever.")
	}

	// A location in both target and exclude silently wins as exclude.
	excludeSet := map[string]bool{}
	for _, e := range out.Locations.Exclude {
		excludeSet[strings.ToLower(e)] = true
	}
	for _, t := range out.Locations.Target {
		if excludeSet[strings.ToLower(t)] {
			res.addWarn("location appears in both target and exclude: %q", t)
		}
	}

	return out, res
}
