package notify

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/mail.v2"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

func samplePosting() domain.ProcessedPosting {
	return domain.ProcessedPosting{
		Posting: domain.Posting{
			Title:    "Data Engineer <Platform>",
			Company:  "Acme & Co",
			Location: "Berlin, Germany",
			URL:      "https://example.com/jobs/1",
			Source:   "remoteok",
			Salary:   "€70k",
		},
		Fingerprint:    "fp1",
		Status:         domain.StatusDetected,
		Category:       domain.CategoryDataEngineering,
		CombinedScore:  0.85,
		IsTargetRegion: true,
		City:           "Berlin",
		AgeHours:       3,
	}
}

func TestFormatPostingEscapesHTML(t *testing.T) {
	out := formatPosting(samplePosting())
	assert.Contains(t, out, "Data Engineer &lt;Platform&gt;")
	assert.Contains(t, out, "Acme &amp; Co")
	assert.Contains(t, out, "🔥")
	assert.Contains(t, out, "#DataEngineering")
	assert.Contains(t, out, "#remoteok")
	assert.Contains(t, out, `<a href="https://example.com/jobs/1">Apply</a>`)
}

func TestFreshnessLabels(t *testing.T) {
	assert.Equal(t, "just posted", freshness(0.5))
	assert.Equal(t, "3h ago", freshness(3))
	assert.Equal(t, "2d ago", freshness(48))
	assert.Equal(t, "older", freshness(24*30))
	assert.Equal(t, "older", freshness(math.Inf(1)))
}

func TestScoreEmojiBuckets(t *testing.T) {
	assert.Equal(t, "🔥", scoreEmoji(0.9))
	assert.Equal(t, "⭐", scoreEmoji(0.65))
	assert.Equal(t, "✅", scoreEmoji(0.45))
	assert.Equal(t, "💡", scoreEmoji(0.1))
}

func TestConsoleNotifier(t *testing.T) {
	var b strings.Builder
	c := &Console{Out: &b}
	require.NoError(t, c.Send(context.Background(), samplePosting()))

	stats := domain.NewScanStats(time.Now())
	stats.TotalFetched = 10
	require.NoError(t, c.SendSummary(context.Background(), stats))

	out := b.String()
	assert.Contains(t, out, "Data Engineer <Platform>")
	assert.Contains(t, out, "fetched=10")
}

func TestEmailDigestBatches(t *testing.T) {
	var sent []*gomail.Message
	e := NewEmail(EmailConfig{FromEmail: "from@example.com", ToEmail: "to@example.com"})
	e.send = func(m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}

	ctx := context.Background()
	require.NoError(t, e.Send(ctx, samplePosting()))
	require.NoError(t, e.Send(ctx, samplePosting()))
	assert.Empty(t, sent, "postings are batched until the summary")

	require.NoError(t, e.SendSummary(ctx, domain.NewScanStats(time.Now())))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"2 new job matches"}, sent[0].GetHeader("Subject"))

	// An empty batch sends nothing.
	require.NoError(t, e.SendSummary(ctx, domain.NewScanStats(time.Now())))
	assert.Len(t, sent, 1)
}
