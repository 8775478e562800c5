package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// Telegram sends one message per posting to a private chat. Messages
// are paced below the Bot API flood limit.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

// NewTelegram authenticates against the Bot API, which doubles as a
// connection test at startup.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(ctx context.Context, p domain.ProcessedPosting) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, formatPosting(p))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (t *Telegram) SendSummary(ctx context.Context, stats *domain.ScanStats) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, formatSummary(stats))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram summary: %w", err)
	}
	return nil
}

func formatPosting(p domain.ProcessedPosting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n", scoreEmoji(p.CombinedScore), html.EscapeString(p.Title))
	fmt.Fprintf(&b, "🏢 %s\n", html.EscapeString(p.Company))
	if p.Location != "" {
		loc := p.Location
		if p.City != "" {
			loc = p.City
		}
		fmt.Fprintf(&b, "📍 %s", html.EscapeString(loc))
		if p.IsRemote {
			b.WriteString(" (remote)")
		}
		b.WriteString("\n")
	} else if p.IsRemote {
		b.WriteString("📍 Remote\n")
	}
	if p.Salary != "" {
		fmt.Fprintf(&b, "💰 %s\n", html.EscapeString(p.Salary))
	}
	fmt.Fprintf(&b, "📊 Score: %.2f · %s\n", p.CombinedScore, freshness(p.AgeHours))
	if p.ExperienceRequired != "" {
		fmt.Fprintf(&b, "🎯 Experience: %s\n", html.EscapeString(p.ExperienceRequired))
	}
	if p.URL != "" {
		fmt.Fprintf(&b, "\n<a href=\"%s\">Apply</a>\n", p.URL)
	}
	fmt.Fprintf(&b, "\n%s #%s", categoryTag(p.Category), p.Source)
	return b.String()
}

func formatSummary(s *domain.ScanStats) string {
	var b strings.Builder
	b.WriteString("<b>Scan complete</b>\n")
	fmt.Fprintf(&b, "Fetched %d, new %d, matched %d, sent %d\n",
		s.TotalFetched, s.TotalNew, s.TotalMatched, s.TotalNotified)
	if s.TotalMatched > 0 {
		fmt.Fprintf(&b, "Best score %.2f, average %.2f\n", s.BestScore, s.AvgScore)
	}
	if len(s.SourceCounts) > 0 {
		b.WriteString("\nPer source:\n")
		for name, n := range s.SourceCounts {
			fmt.Fprintf(&b, "  %s: %d\n", name, n)
		}
	}
	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "\n⚠️ %d source error(s)\n", len(s.Errors))
	}
	return b.String()
}
