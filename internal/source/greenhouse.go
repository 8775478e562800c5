package source

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/normalize"
)

// GreenhouseBoard identifies one board under boards.greenhouse.io.
type GreenhouseBoard struct {
	Slug string `yaml:"slug"` // boards.greenhouse.io/<slug>
	Name string `yaml:"name"` // display name
}

// Greenhouse scrapes the public board pages of a configured set of
// companies. One broken board never fails the whole fetch.
type Greenhouse struct {
	client *Client
	boards []GreenhouseBoard
}

func NewGreenhouse(client *Client, boards []GreenhouseBoard) *Greenhouse {
	return &Greenhouse{client: client, boards: boards}
}

func (s *Greenhouse) Name() string { return "greenhouse" }

func (s *Greenhouse) Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error) {
	var out []domain.Posting
	for _, board := range s.boards {
		postings, err := s.fetchBoard(ctx, board, keywords)
		if err != nil {
			log.Printf("[source] greenhouse board %s: %v", board.Slug, err)
			continue
		}
		out = append(out, postings...)
	}
	return out, nil
}

func (s *Greenhouse) fetchBoard(ctx context.Context, board GreenhouseBoard, keywords []string) ([]domain.Posting, error) {
	boardURL := fmt.Sprintf("https://boards.greenhouse.io/%s", board.Slug)
	return s.fetchBoardURL(ctx, boardURL, board, keywords)
}

func (s *Greenhouse) fetchBoardURL(ctx context.Context, boardURL string, board GreenhouseBoard, keywords []string) ([]domain.Posting, error) {
	body, err := s.client.Get(ctx, boardURL)
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse board html: %w", err)
	}

	now := time.Now().UTC()
	seen := map[string]bool{}
	var out []domain.Posting

	// Board pages link each opening as /<slug>/jobs/<id>.
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		abs := href
		if strings.HasPrefix(href, "/") {
			abs = "https://boards.greenhouse.io" + href
		}
		low := strings.ToLower(abs)
		if !strings.Contains(low, "boards.greenhouse.io") || !strings.Contains(low, "/jobs/") {
			return
		}
		if seen[abs] {
			return
		}
		seen[abs] = true

		title := normalize.CleanText(a.Text())
		if title == "" || looksLikeJunkTitle(title) {
			return
		}
		if !matchesKeywords(title, keywords) {
			return
		}

		location := normalize.CleanText(a.Parent().Find(".location").First().Text())
		p := normalize.Clean(normalize.Raw{
			Title:    title,
			Company:  board.Name,
			Location: location,
			URL:      abs,
		}, s.Name())
		p.FetchedAt = now
		out = append(out, p)
	})

	return out, nil
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return strings.Contains(l, "view") || strings.Contains(l, "apply")
}
