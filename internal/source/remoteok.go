package source

import (
	"context"
	"strings"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/normalize"
)

const remoteOKURL = "https://remoteok.com/api"

type RemoteOK struct {
	client  *Client
	baseURL string
}

func NewRemoteOK(client *Client) *RemoteOK {
	return &RemoteOK{client: client, baseURL: remoteOKURL}
}

func (s *RemoteOK) Name() string { return "remoteok" }

type remoteOKItem struct {
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	SalaryMin   int      `json:"salary_min"`
	SalaryMax   int      `json:"salary_max"`
	Legal       string   `json:"legal"`
}

func (s *RemoteOK) Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error) {
	var items []remoteOKItem
	if err := s.client.GetJSON(ctx, s.baseURL, &items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []domain.Posting
	for _, it := range items {
		// The first array element is a legal notice, not a posting.
		if it.Legal != "" || it.Position == "" {
			continue
		}
		if !matchesKeywords(it.Position+" "+strings.Join(it.Tags, " "), keywords) {
			continue
		}
		p := normalize.Clean(normalize.Raw{
			Title:       it.Position,
			Company:     it.Company,
			Location:    it.Location,
			Description: it.Description,
			URL:         it.URL,
			Posted:      it.Date,
			Salary:      salaryRange(it.SalaryMin, it.SalaryMax),
		}, s.Name())
		p.FetchedAt = now
		out = append(out, p)
	}
	return out, nil
}

// matchesKeywords reports whether any keyword appears in the text. An
// empty keyword list matches everything.
func matchesKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
