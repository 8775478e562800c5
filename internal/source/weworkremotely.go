package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/normalize"
)

const weWorkRemotelyURL = "https://weworkremotely.com/categories/remote-data-science-jobs.rss"

type WeWorkRemotely struct {
	client *Client
	// FeedURL overrides the default category feed.
	FeedURL string
}

func NewWeWorkRemotely(client *Client) *WeWorkRemotely {
	return &WeWorkRemotely{client: client, FeedURL: weWorkRemotelyURL}
}

func (s *WeWorkRemotely) Name() string { return "weworkremotely" }

type wwrFeed struct {
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
			Region      string `xml:"region"`
		} `xml:"item"`
	} `xml:"channel"`
}

func (s *WeWorkRemotely) Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error) {
	body, err := s.client.Get(ctx, s.FeedURL)
	if err != nil {
		return nil, err
	}
	var feed wwrFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode rss: %w", err)
	}

	now := time.Now().UTC()
	var out []domain.Posting
	for _, it := range feed.Channel.Items {
		company, title := splitFeedTitle(it.Title)
		if !matchesKeywords(title, keywords) {
			continue
		}
		location := it.Region
		if location == "" {
			location = "Remote"
		}
		p := normalize.Clean(normalize.Raw{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: it.Description,
			URL:         it.Link,
			Posted:      rssDate(it.PubDate),
		}, s.Name())
		p.FetchedAt = now
		out = append(out, p)
	}
	return out, nil
}

// splitFeedTitle breaks the feed's "Company: Job Title" convention. A
// title with no separator is treated as title-only.
func splitFeedTitle(s string) (company, title string) {
	if c, t, ok := strings.Cut(s, ": "); ok {
		return strings.TrimSpace(c), strings.TrimSpace(t)
	}
	return "", strings.TrimSpace(s)
}

// rssDate converts RFC1123 pub dates into the ISO form the freshness
// parser understands; anything else passes through untouched.
func rssDate(s string) string {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05Z")
		}
	}
	return s
}
