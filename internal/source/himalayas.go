package source

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/normalize"
)

const himalayasURL = "https://himalayas.app/jobs/api?limit=100"

type Himalayas struct {
	client  *Client
	baseURL string
}

func NewHimalayas(client *Client) *Himalayas {
	return &Himalayas{client: client, baseURL: himalayasURL}
}

func (s *Himalayas) Name() string { return "himalayas" }

type himalayasResponse struct {
	Jobs []struct {
		Title            string   `json:"title"`
		CompanyName      string   `json:"companyName"`
		LocationTags     []string `json:"locationRestrictions"`
		Description      string   `json:"description"`
		ApplicationLink  string   `json:"applicationLink"`
		PubDate          int64    `json:"pubDate"`
		MinSalary        int      `json:"minSalary"`
		MaxSalary        int      `json:"maxSalary"`
		EmploymentType   string   `json:"employmentType"`
		Categories       []string `json:"categories"`
	} `json:"jobs"`
}

func (s *Himalayas) Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error) {
	var resp himalayasResponse
	if err := s.client.GetJSON(ctx, s.baseURL, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []domain.Posting
	for _, it := range resp.Jobs {
		if !matchesKeywords(it.Title+" "+strings.Join(it.Categories, " "), keywords) {
			continue
		}
		var posted string
		if it.PubDate > 0 {
			posted = strconv.FormatInt(it.PubDate, 10)
		}
		location := strings.Join(it.LocationTags, ", ")
		if location == "" {
			location = "Remote"
		}
		p := normalize.Clean(normalize.Raw{
			Title:       it.Title,
			Company:     it.CompanyName,
			Location:    location,
			Description: it.Description,
			URL:         it.ApplicationLink,
			Posted:      posted,
			Salary:      salaryRange(it.MinSalary, it.MaxSalary),
			JobType:     it.EmploymentType,
		}, s.Name())
		p.FetchedAt = now
		out = append(out, p)
	}
	return out, nil
}
