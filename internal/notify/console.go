package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// Console prints matches to stdout. Useful for dry runs and as a
// fallback when no chat channel is configured.
type Console struct {
	Out io.Writer
}

func NewConsole() *Console {
	return &Console{Out: os.Stdout}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Send(_ context.Context, p domain.ProcessedPosting) error {
	_, err := fmt.Fprintf(c.Out, "%s [%.2f] %s at %s (%s) %s\n",
		scoreEmoji(p.CombinedScore), p.CombinedScore, p.Title, p.Company,
		freshness(p.AgeHours), p.URL)
	return err
}

func (c *Console) SendSummary(_ context.Context, s *domain.ScanStats) error {
	_, err := fmt.Fprintf(c.Out, "scan: fetched=%d new=%d matched=%d notified=%d errors=%d\n",
		s.TotalFetched, s.TotalNew, s.TotalMatched, s.TotalNotified, len(s.Errors))
	return err
}
