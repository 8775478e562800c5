package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/normalize"
)

const jobicyURL = "https://jobicy.com/api/v2/remote-jobs"

type Jobicy struct {
	client  *Client
	baseURL string
	// Tag narrows the feed server-side; empty fetches the general feed.
	Tag string
}

func NewJobicy(client *Client, tag string) *Jobicy {
	return &Jobicy{client: client, baseURL: jobicyURL, Tag: tag}
}

func (s *Jobicy) Name() string { return "jobicy" }

type jobicyResponse struct {
	Jobs []struct {
		JobTitle       string   `json:"jobTitle"`
		CompanyName    string   `json:"companyName"`
		JobGeo         string   `json:"jobGeo"`
		JobType        []string `json:"jobType"`
		JobDescription string   `json:"jobDescription"`
		URL            string   `json:"url"`
		PubDate        string   `json:"pubDate"`
		SalaryMin      int      `json:"annualSalaryMin"`
		SalaryMax      int      `json:"annualSalaryMax"`
	} `json:"jobs"`
}

func (s *Jobicy) Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error) {
	q := url.Values{"count": {"50"}}
	if s.Tag != "" {
		q.Set("tag", s.Tag)
	}
	var resp jobicyResponse
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s?%s", s.baseURL, q.Encode()), &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []domain.Posting
	for _, it := range resp.Jobs {
		if !matchesKeywords(it.JobTitle, keywords) {
			continue
		}
		var jobType string
		if len(it.JobType) > 0 {
			jobType = it.JobType[0]
		}
		p := normalize.Clean(normalize.Raw{
			Title:       it.JobTitle,
			Company:     it.CompanyName,
			Location:    it.JobGeo,
			Description: it.JobDescription,
			URL:         it.URL,
			Posted:      it.PubDate,
			Salary:      salaryRange(it.SalaryMin, it.SalaryMax),
			JobType:     jobType,
		}, s.Name())
		p.FetchedAt = now
		out = append(out, p)
	}
	return out, nil
}
