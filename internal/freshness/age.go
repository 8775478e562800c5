// Package freshness interprets the loosely-typed "posted" field job boards
// report. Formats in the wild range from epoch timestamps to "3 hours ago"
// to nothing at all, so parsing is a precedence cascade with lenient
// fallbacks: a missed fresh job costs more than an occasional stale alert.
package freshness

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// Fallback constants. Downstream freshness filtering is sensitive to
	// these exact values; see the tests before touching them.
	assumeFreshHours     = 3.0
	minuteParseFallback  = 1.0
	hourParseFallback    = 5.0
	todayHours           = 3.0
	yesterdayHours       = 30.0
	epochMillisThreshold = 1_000_000_000_000
)

// AgeHours converts a posted value into a non-negative age in hours
// relative to now. +Inf means "unparseable as recent, or too old" and
// excludes the posting from freshness; unknown formats and empty input
// default to a small constant instead.
func AgeHours(posted string, now time.Time) float64 {
	posted = strings.TrimSpace(posted)
	if posted == "" {
		return assumeFreshHours
	}
	lower := strings.ToLower(posted)

	// Epoch seconds, or milliseconds past the 13-digit threshold.
	if isDigits(posted) && len(posted) >= 10 {
		ts, err := strconv.ParseInt(posted, 10, 64)
		if err != nil {
			return math.Inf(1)
		}
		if ts > epochMillisThreshold {
			ts /= 1000
		}
		return clampAge(now.Sub(time.Unix(ts, 0)).Hours())
	}

	for _, w := range []string{"just", "now", "moment", "second"} {
		if strings.Contains(lower, w) {
			return 0
		}
	}

	if strings.Contains(lower, "minute") {
		n, ok := leadingInt(lower, "minute")
		if !ok {
			return minuteParseFallback
		}
		return float64(n) / 60
	}

	if strings.Contains(lower, "hour") {
		n, ok := leadingInt(lower, "hour")
		if !ok {
			return hourParseFallback
		}
		return float64(n)
	}

	// "today"/"yesterday" before the generic "day" branch.
	if strings.Contains(lower, "today") {
		return todayHours
	}
	if strings.Contains(lower, "yesterday") {
		return yesterdayHours
	}

	if strings.Contains(lower, "day") && strings.Contains(lower, "ago") {
		n, ok := leadingInt(lower, "day")
		if !ok {
			return math.Inf(1)
		}
		return float64(n) * 24
	}

	// Weeks and beyond are too stale to model precisely.
	if strings.Contains(lower, "week") || strings.Contains(lower, "month") || strings.Contains(lower, "year") {
		return math.Inf(1)
	}

	// ISO-8601 with a timezone marker: strip zone and fractional seconds.
	if strings.Contains(posted, "T") && strings.ContainsAny(posted, "+Z") {
		s := posted
		if i := strings.IndexAny(s, "+Z"); i >= 0 {
			s = s[:i]
		}
		if i := strings.Index(s, "."); i >= 0 {
			s = s[:i]
		}
		if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return clampAge(now.Sub(t).Hours())
		}
	}

	// Bare date, optionally with a T suffix. The date alone says nothing
	// about the hour, so assume posted mid-day.
	if strings.Contains(posted, "-") && len(posted) >= 10 {
		s := posted
		if i := strings.Index(s, "T"); i >= 0 {
			s = s[:i]
		} else {
			s = s[:10]
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return clampAge(now.Sub(t).Hours() - 12)
		}
	}

	if strings.Contains(lower, "recent") {
		return assumeFreshHours
	}

	return assumeFreshHours
}

// Fresh reports whether the posted value falls within maxAgeHours.
func Fresh(posted string, maxAgeHours float64, now time.Time) bool {
	return AgeHours(posted, now) <= maxAgeHours
}

func leadingInt(s, unit string) (int, bool) {
	head, _, _ := strings.Cut(s, unit)
	var digits strings.Builder
	for _, r := range head {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		// "a minute ago" and friends count as zero of the unit
		return 0, true
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func clampAge(h float64) float64 {
	if h < 0 {
		return 0
	}
	return h
}
