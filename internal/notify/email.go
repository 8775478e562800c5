package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// EmailConfig holds SMTP settings for the digest channel.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
}

// Email collects matches during a scan and mails them as one digest
// when the summary goes out, rather than one mail per posting.
type Email struct {
	cfg EmailConfig

	mu      sync.Mutex
	pending []domain.ProcessedPosting

	send func(m *gomail.Message) error
}

func NewEmail(cfg EmailConfig) *Email {
	e := &Email{cfg: cfg}
	e.send = func(m *gomail.Message) error {
		dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		dialer.Timeout = 10 * time.Second
		return dialer.DialAndSend(m)
	}
	return e
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(_ context.Context, p domain.ProcessedPosting) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, p)
	return nil
}

func (e *Email) SendSummary(_ context.Context, stats *domain.ScanStats) error {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.FromEmail)
	m.SetHeader("To", e.cfg.ToEmail)
	m.SetHeader("Subject", fmt.Sprintf("%d new job matches", len(pending)))
	m.SetBody("text/plain", digestText(pending))
	m.AddAlternative("text/html", digestHTML(pending, stats))

	if err := e.send(m); err != nil {
		return fmt.Errorf("email digest to %s: %w", e.cfg.ToEmail, err)
	}
	return nil
}

func digestText(postings []domain.ProcessedPosting) string {
	var b strings.Builder
	for _, p := range postings {
		fmt.Fprintf(&b, "[%.2f] %s at %s (%s)\n%s\n\n",
			p.CombinedScore, p.Title, p.Company, freshness(p.AgeHours), p.URL)
	}
	return b.String()
}

func digestHTML(postings []domain.ProcessedPosting, stats *domain.ScanStats) string {
	var b strings.Builder
	b.WriteString("<h2>New job matches</h2><ul>")
	for _, p := range postings {
		fmt.Fprintf(&b, `<li>%s <a href="%s"><b>%s</b></a> at %s &middot; score %.2f, %s</li>`,
			scoreEmoji(p.CombinedScore), p.URL, html.EscapeString(p.Title),
			html.EscapeString(p.Company), p.CombinedScore, freshness(p.AgeHours))
	}
	b.WriteString("</ul>")
	if stats != nil {
		fmt.Fprintf(&b, "<p>Fetched %d postings, %d new, %d matched.</p>",
			stats.TotalFetched, stats.TotalNew, stats.TotalMatched)
	}
	return b.String()
}
