package match

import "strings"

// LocationResult classifies a posting's geographic eligibility.
type LocationResult struct {
	TargetRegion bool
	Remote       bool
	City         string
}

// CheckLocation decides target-region eligibility from the location string
// and description combined. The policy leans towards inclusion: remote
// jobs without an explicit restriction and postings with no location
// information at all both count as accessible. Only an explicit other
// region without a remote option excludes.
func (m *Matcher) CheckLocation(location, description string) LocationResult {
	combined := strings.ToLower(location + " " + description)

	isRemote := containsAny(combined, m.cfg.RemoteTerms)
	targetExplicit := containsAny(combined, m.cfg.TargetLocations)
	hasRestriction := containsAny(combined, m.cfg.RestrictionPhrases)
	hasOtherRegion := containsAny(combined, m.cfg.ExcludeLocations)

	locClean := strings.ToLower(strings.TrimSpace(location))
	noLocationInfo := locClean == "" || locClean == "unknown" || locClean == "n/a" ||
		locClean == "not specified" || locClean == "tbd"

	var target bool
	switch {
	case targetExplicit:
		target = true
	case isRemote && !hasRestriction:
		target = true
	case noLocationInfo:
		target = true
	case hasOtherRegion && !isRemote:
		target = false
	default:
		target = isRemote || !hasOtherRegion
	}

	// First matching alias wins; the table is ordered by priority.
	var city string
	for _, c := range m.cfg.Cities {
		if strings.Contains(combined, strings.ToLower(c.Match)) {
			city = c.Name
			break
		}
	}

	return LocationResult{TargetRegion: target, Remote: isRemote, City: city}
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
