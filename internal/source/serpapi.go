package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/normalize"
)

const (
	serpAPIURL  = "https://serpapi.com/search.json"
	serpAPIName = "serpapi"
)

// UsageStore tracks monthly API call counts so a metered source can
// respect its quota across restarts.
type UsageStore interface {
	APIUsage(ctx context.Context, apiName string, now time.Time) (int, error)
	IncrementAPIUsage(ctx context.Context, apiName string, now time.Time) error
}

// SerpAPI queries Google Jobs through the SerpAPI proxy. Calls are
// metered against a monthly limit; once the quota is spent the source
// contributes nothing until the month rolls over.
type SerpAPI struct {
	client       *Client
	usage        UsageStore
	baseURL      string
	apiKey       string
	location     string
	monthlyLimit int
	now          func() time.Time
}

func NewSerpAPI(client *Client, usage UsageStore, apiKey, location string, monthlyLimit int) *SerpAPI {
	return &SerpAPI{
		client:       client,
		usage:        usage,
		baseURL:      serpAPIURL,
		apiKey:       apiKey,
		location:     location,
		monthlyLimit: monthlyLimit,
		now:          time.Now,
	}
}

func (s *SerpAPI) Name() string { return serpAPIName }

type serpAPIResponse struct {
	JobsResults []struct {
		Title           string `json:"title"`
		CompanyName     string `json:"company_name"`
		Location        string `json:"location"`
		Description     string `json:"description"`
		ShareLink       string `json:"share_link"`
		DetectedExtensions struct {
			PostedAt     string `json:"posted_at"`
			Salary       string `json:"salary"`
			ScheduleType string `json:"schedule_type"`
		} `json:"detected_extensions"`
	} `json:"jobs_results"`
}

func (s *SerpAPI) Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error) {
	now := s.now()
	used, err := s.usage.APIUsage(ctx, serpAPIName, now)
	if err != nil {
		return nil, fmt.Errorf("check quota: %w", err)
	}
	if used >= s.monthlyLimit {
		return nil, fmt.Errorf("monthly limit of %d calls reached", s.monthlyLimit)
	}
	// Count the call before it happens; an undercounted quota is worse
	// than an overcounted one.
	if err := s.usage.IncrementAPIUsage(ctx, serpAPIName, now); err != nil {
		return nil, fmt.Errorf("record quota: %w", err)
	}

	q := url.Values{
		"engine":  {"google_jobs"},
		"q":       {strings.Join(keywords, " OR ")},
		"api_key": {s.apiKey},
	}
	if s.location != "" {
		q.Set("location", s.location)
	}

	var resp serpAPIResponse
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s?%s", s.baseURL, q.Encode()), &resp); err != nil {
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	var out []domain.Posting
	for _, it := range resp.JobsResults {
		p := normalize.Clean(normalize.Raw{
			Title:       it.Title,
			Company:     it.CompanyName,
			Location:    it.Location,
			Description: it.Description,
			URL:         it.ShareLink,
			Posted:      it.DetectedExtensions.PostedAt,
			Salary:      it.DetectedExtensions.Salary,
			JobType:     it.DetectedExtensions.ScheduleType,
		}, s.Name())
		p.FetchedAt = fetchedAt
		out = append(out, p)
	}
	return out, nil
}
