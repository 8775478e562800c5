package xpfilter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"google.golang.org/genai"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

const (
	defaultLLMModel    = "gemini-2.0-flash"
	defaultConcurrency = 3
	defaultCallDelay   = 500 * time.Millisecond
)

const analysisInstruction = `You assess job postings for a junior-to-mid level data candidate
(up to 4 years of professional experience). Read the posting and decide
whether the candidate could realistically be considered. Explicit
seniority requirements, people-management duties, or demands of 8 or
more years disqualify a posting. When the posting is vague, lean
towards suitable.`

// Analysis is the LLM's structured judgement on one posting.
type Analysis struct {
	Suitable           bool   `json:"suitable_for_junior"`
	ExperienceRequired string `json:"experience_required"`
	Reason             string `json:"reason"`
}

// LLMFilter performs deep experience checks via the Gemini API. Calls
// are bounded by a concurrency limit and paced with a fixed delay so
// free-tier quotas survive a large scan.
type LLMFilter struct {
	APIKey      string
	Model       string
	Concurrency int64
	CallDelay   time.Duration

	mu     sync.Mutex
	client *genai.Client
}

func NewLLMFilter(apiKey string) *LLMFilter {
	return &LLMFilter{
		APIKey:      apiKey,
		Model:       defaultLLMModel,
		Concurrency: defaultConcurrency,
		CallDelay:   defaultCallDelay,
	}
}

func (f *LLMFilter) getClient(ctx context.Context) (*genai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		return f.client, nil
	}
	if f.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	f.client = client
	return client, nil
}

// Analyze asks the model whether a single posting suits the candidate.
func (f *LLMFilter) Analyze(ctx context.Context, p domain.Posting) (Analysis, error) {
	client, err := f.getClient(ctx)
	if err != nil {
		return Analysis{}, err
	}

	prompt := fmt.Sprintf("Title: %s\nCompany: %s\n\nPosting:\n%s", p.Title, p.Company, p.Description)
	contents := []*genai.Content{
		{Role: "system", Parts: []*genai.Part{{Text: analysisInstruction}}},
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := client.Models.GenerateContent(ctx, f.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("gemini call failed: %w", err)
	}

	var a Analysis
	if err := json.Unmarshal([]byte(resp.Text()), &a); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal gemini response: %w", err)
	}
	return a, nil
}

// AnalyzeBatch runs Analyze over the given postings, returning one
// verdict per input in order. API failures fail open: the posting is
// treated as suitable so a flaky model never hides a good match.
func (f *LLMFilter) AnalyzeBatch(ctx context.Context, postings []domain.Posting) []Verdict {
	verdicts := make([]Verdict, len(postings))
	sem := semaphore.NewWeighted(max(f.Concurrency, 1))
	var wg sync.WaitGroup

	for i, p := range postings {
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(postings); j++ {
				verdicts[j] = Verdict{Suitable: true, Reason: "analysis cancelled"}
			}
			break
		}
		wg.Add(1)
		go func(i int, p domain.Posting) {
			defer wg.Done()
			defer sem.Release(1)
			a, err := f.Analyze(ctx, p)
			if err != nil {
				log.Printf("[xpfilter] analysis failed for %q at %s: %v", p.Title, p.Company, err)
				verdicts[i] = Verdict{Suitable: true, Reason: "analysis unavailable"}
				return
			}
			verdicts[i] = Verdict{Suitable: a.Suitable, Decided: true, Reason: a.Reason, Experience: a.ExperienceRequired}
		}(i, p)

		if f.CallDelay > 0 && i < len(postings)-1 {
			select {
			case <-time.After(f.CallDelay):
			case <-ctx.Done():
			}
		}
	}
	wg.Wait()
	return verdicts
}

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"suitable_for_junior": {Type: genai.TypeBoolean, Description: "Whether a junior-to-mid level candidate could realistically apply."},
			"experience_required": {Type: genai.TypeString, Description: "The experience requirement stated or implied, e.g. \"5+ years\"."},
			"reason":              {Type: genai.TypeString, Description: "One sentence justifying the decision."},
		},
		Required: []string{"suitable_for_junior", "experience_required", "reason"},
	}
}
