// Package normalize turns heterogeneous source payloads into canonical
// postings. It never fails: malformed input degrades to defaults so one
// bad record cannot sink a batch.
package normalize

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

const (
	maxFieldLen       = 200
	maxDescriptionLen = 5000
)

// Raw is the field set every connector maps its third-party schema into
// before cleaning. Any field may be empty.
type Raw struct {
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Posted      string
	Salary      string
	JobType     string
}

// Clean produces a canonical posting from a raw record: absent fields are
// defaulted, the description is stripped of HTML and bounded, and the URL
// is trimmed (an empty URL survives here but is never notified).
func Clean(raw Raw, source string) domain.Posting {
	return domain.Posting{
		Title:       defaulted(clip(CleanText(raw.Title), maxFieldLen)),
		Company:     defaulted(clip(CleanText(raw.Company), maxFieldLen)),
		Location:    clip(CleanText(raw.Location), maxFieldLen),
		Description: clip(StripHTML(raw.Description), maxDescriptionLen),
		URL:         strings.TrimSpace(raw.URL),
		Source:      source,
		Posted:      strings.TrimSpace(raw.Posted),
		Salary:      clip(CleanText(raw.Salary), maxFieldLen),
		JobType:     clip(CleanText(raw.JobType), maxFieldLen),
	}
}

// StripHTML drops tags and entities from a fragment, keeping text content
// with whitespace collapsed. Non-HTML input passes through unchanged
// apart from whitespace collapsing.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CleanText(s)
	}

	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return CleanText(b.String())
		case html.TextToken:
			b.Write(tok.Text())
			b.WriteByte(' ')
		}
	}
}

// CleanText collapses runs of whitespace (including non-breaking spaces)
// into single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

func defaulted(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
