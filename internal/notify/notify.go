// Package notify delivers matched postings and scan summaries to the
// user over whatever channels are configured.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// Notifier is one delivery channel. Failures are per-channel; the
// pipeline reports them but keeps going.
type Notifier interface {
	Name() string
	Send(ctx context.Context, p domain.ProcessedPosting) error
	SendSummary(ctx context.Context, stats *domain.ScanStats) error
}

// scoreEmoji buckets a combined score into a visual marker.
func scoreEmoji(score float64) string {
	switch {
	case score >= 0.8:
		return "🔥"
	case score >= 0.6:
		return "⭐"
	case score >= 0.4:
		return "✅"
	default:
		return "💡"
	}
}

// categoryTag renders a category as a hashtag, e.g. #MLEngineering.
func categoryTag(c domain.Category) string {
	return "#" + strings.ReplaceAll(string(c), " ", "")
}

// freshness renders an age in hours as a short human label.
func freshness(ageHours float64) string {
	switch {
	case ageHours < 1:
		return "just posted"
	case ageHours < 24:
		return fmt.Sprintf("%.0fh ago", ageHours)
	case ageHours < 24*7:
		return fmt.Sprintf("%.0fd ago", ageHours/24)
	default:
		return "older"
	}
}
