package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/normalize"
)

const arbeitnowURL = "https://www.arbeitnow.com/api/job-board-api"

// Arbeitnow serves mostly German and EU listings, which makes it the
// highest-signal source for a Germany-focused search.
type Arbeitnow struct {
	client  *Client
	baseURL string
}

func NewArbeitnow(client *Client) *Arbeitnow {
	return &Arbeitnow{client: client, baseURL: arbeitnowURL}
}

func (s *Arbeitnow) Name() string { return "arbeitnow" }

type arbeitnowResponse struct {
	Data []struct {
		Title       string   `json:"title"`
		CompanyName string   `json:"company_name"`
		Location    string   `json:"location"`
		Description string   `json:"description"`
		URL         string   `json:"url"`
		Remote      bool     `json:"remote"`
		Tags        []string `json:"tags"`
		JobTypes    []string `json:"job_types"`
		CreatedAt   int64    `json:"created_at"`
	} `json:"data"`
}

func (s *Arbeitnow) Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error) {
	var resp arbeitnowResponse
	if err := s.client.GetJSON(ctx, s.baseURL, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []domain.Posting
	for _, it := range resp.Data {
		if !matchesKeywords(it.Title+" "+strings.Join(it.Tags, " "), keywords) {
			continue
		}
		location := it.Location
		if it.Remote && location == "" {
			location = "Remote"
		}
		var posted string
		if it.CreatedAt > 0 {
			posted = strconv.FormatInt(it.CreatedAt, 10)
		}
		p := normalize.Clean(normalize.Raw{
			Title:       it.Title,
			Company:     it.CompanyName,
			Location:    location,
			Description: it.Description,
			URL:         it.URL,
			Posted:      posted,
			JobType:     strings.Join(it.JobTypes, ", "),
		}, s.Name())
		p.FetchedAt = now
		out = append(out, p)
	}
	return out, nil
}

func salaryRange(min, max int) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("$%d-$%d", min, max)
	case min > 0:
		return fmt.Sprintf("$%d+", min)
	default:
		return ""
	}
}
