// Package pipeline wires fetching, matching, filtering, persistence and
// notification into one scan run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tanishq20011430/job-watchdog/internal/dedup"
	"github.com/tanishq20011430/job-watchdog/internal/domain"
	"github.com/tanishq20011430/job-watchdog/internal/match"
	"github.com/tanishq20011430/job-watchdog/internal/notify"
	"github.com/tanishq20011430/job-watchdog/internal/source"
	"github.com/tanishq20011430/job-watchdog/internal/store"
	"github.com/tanishq20011430/job-watchdog/internal/xpfilter"
)

// Options tune one scan run.
type Options struct {
	Keywords             []string
	MaxConcurrentFetches int
	SourceTimeout        time.Duration
	// TopMatches caps how many postings are notified per run, best first.
	TopMatches int
	// DeepFilter enables the LLM pass on postings the quick regex check
	// leaves undecided.
	DeepFilter bool
}

// DeepFilterer is the LLM-backed experience check; nil disables it.
type DeepFilterer interface {
	AnalyzeBatch(ctx context.Context, postings []domain.Posting) []xpfilter.Verdict
}

type Pipeline struct {
	db        *store.DB
	matcher   *match.Matcher
	deep      DeepFilterer
	notifiers []notify.Notifier
	sources   []source.Fetcher
	opts      Options

	now func() time.Time
}

func New(db *store.DB, matcher *match.Matcher, deep DeepFilterer, notifiers []notify.Notifier, sources []source.Fetcher, opts Options) *Pipeline {
	if opts.MaxConcurrentFetches <= 0 {
		opts.MaxConcurrentFetches = 5
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = 60 * time.Second
	}
	if opts.TopMatches <= 0 {
		opts.TopMatches = 10
	}
	return &Pipeline{
		db:        db,
		matcher:   matcher,
		deep:      deep,
		notifiers: notifiers,
		sources:   sources,
		opts:      opts,
		now:       time.Now,
	}
}

// Run executes one full scan. Source failures degrade to zero
// contributions; only storage-level trouble aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*domain.ScanStats, error) {
	stats := domain.NewScanStats(p.now())

	batches := p.fetchAll(ctx)
	var fetched []domain.Posting
	for _, b := range batches {
		stats.SourceCounts[b.Source] = len(b.Postings)
		stats.TotalFetched += len(b.Postings)
		if b.Err != "" {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %s", b.Source, b.Err))
		}
		fetched = append(fetched, b.Postings...)
	}
	log.Printf("[pipeline] fetched %d postings from %d sources", stats.TotalFetched, len(p.sources))

	known, err := p.db.KnownFingerprints(ctx)
	if err != nil {
		return stats, fmt.Errorf("load known fingerprints: %w", err)
	}
	fresh := dedup.Filter(fetched, known)
	stats.TotalNew = len(fresh)

	processed := p.matcher.MatchAll(ctx, fresh)
	detected := p.filterExperience(ctx, processed)
	p.countFilters(detected, stats)

	var matched []domain.ProcessedPosting
	for _, pp := range detected {
		if pp.Status == domain.StatusDetected {
			matched = append(matched, pp)
		}
	}
	stats.TotalMatched = len(matched)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CombinedScore > matched[j].CombinedScore
	})

	var sum float64
	for _, pp := range matched {
		if pp.CombinedScore > stats.BestScore {
			stats.BestScore = pp.CombinedScore
		}
		sum += pp.CombinedScore
	}
	if len(matched) > 0 {
		stats.AvgScore = sum / float64(len(matched))
	}

	inserted, failed := p.db.InsertBatch(ctx, detected)
	stats.InsertFailures = failed
	log.Printf("[pipeline] stored %d postings, %d failures", inserted, failed)

	p.notifyMatches(ctx, matched, stats)

	stats.CompletedAt = p.now()
	if err := p.db.SaveScanStats(ctx, stats); err != nil {
		log.Printf("[pipeline] save scan stats: %v", err)
	}
	for _, n := range p.notifiers {
		if err := n.SendSummary(ctx, stats); err != nil {
			log.Printf("[pipeline] %s summary: %v", n.Name(), err)
		}
	}
	return stats, nil
}

// fetchAll runs every source concurrently under a shared limit. Each
// source gets its own timeout so one slow board cannot stall the scan.
func (p *Pipeline) fetchAll(ctx context.Context) []domain.Batch {
	batches := make([]domain.Batch, len(p.sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrentFetches)

	for i, src := range p.sources {
		g.Go(func() error {
			start := time.Now()
			sctx, cancel := context.WithTimeout(ctx, p.opts.SourceTimeout)
			defer cancel()

			postings, err := src.Fetch(sctx, p.opts.Keywords)
			b := domain.Batch{
				Source:   src.Name(),
				Postings: postings,
				Duration: time.Since(start),
			}
			if err != nil {
				b.Err = err.Error()
				b.Postings = nil
				log.Printf("[pipeline] source %s: %v", src.Name(), err)
			}
			batches[i] = b
			return nil
		})
	}
	_ = g.Wait()
	return batches
}

// filterExperience runs the quick regex check on every detected posting
// and escalates the undecided ones to the deep filter when enabled.
func (p *Pipeline) filterExperience(ctx context.Context, postings []domain.ProcessedPosting) []domain.ProcessedPosting {
	var undecided []int
	for i := range postings {
		pp := &postings[i]
		if pp.Status != domain.StatusDetected {
			continue
		}
		v := xpfilter.QuickCheck(pp.Title, pp.Description)
		if v.Decided {
			fit := v.Suitable
			pp.ExperienceFit = &fit
			pp.FitReason = v.Reason
			if !v.Suitable {
				pp.Status = domain.StatusFiltered
			}
			continue
		}
		if p.deep != nil && p.opts.DeepFilter {
			undecided = append(undecided, i)
		}
	}

	if len(undecided) > 0 {
		batch := make([]domain.Posting, len(undecided))
		for j, i := range undecided {
			batch[j] = postings[i].Posting
		}
		verdicts := p.deep.AnalyzeBatch(ctx, batch)
		for j, i := range undecided {
			v := verdicts[j]
			pp := &postings[i]
			if v.Decided {
				fit := v.Suitable
				pp.ExperienceFit = &fit
			}
			pp.FitReason = v.Reason
			pp.ExperienceRequired = v.Experience
			if v.Decided && !v.Suitable {
				pp.Status = domain.StatusFiltered
			}
		}
	}
	return postings
}

// notifyMatches sends the top matches that have not been notified
// before and records the transition.
func (p *Pipeline) notifyMatches(ctx context.Context, matched []domain.ProcessedPosting, stats *domain.ScanStats) {
	if len(p.notifiers) == 0 {
		return
	}
	alreadySent, err := p.db.NotifiedFingerprints(ctx)
	if err != nil {
		log.Printf("[pipeline] load notified fingerprints: %v", err)
		return
	}

	sent := 0
	for _, pp := range matched {
		if sent >= p.opts.TopMatches {
			break
		}
		if alreadySent.Contains(pp.Fingerprint) {
			continue
		}
		// A posting without a link is unactionable; it stays stored but
		// is never sent.
		if pp.URL == "" {
			continue
		}
		delivered := false
		for _, n := range p.notifiers {
			if err := n.Send(ctx, pp); err != nil {
				log.Printf("[pipeline] %s send %s: %v", n.Name(), pp.Fingerprint, err)
				continue
			}
			delivered = true
		}
		if !delivered {
			continue
		}
		if err := p.db.UpdateStatus(ctx, pp.Fingerprint, domain.StatusNotified); err != nil {
			log.Printf("[pipeline] mark notified %s: %v", pp.Fingerprint, err)
		}
		sent++
	}
	stats.TotalNotified = sent
}

func (p *Pipeline) countFilters(postings []domain.ProcessedPosting, stats *domain.ScanStats) {
	for _, pp := range postings {
		if pp.Status != domain.StatusFiltered {
			continue
		}
		switch {
		case !pp.IsTargetRegion:
			stats.FilteredLocation++
		case pp.ExperienceFit != nil && !*pp.ExperienceFit:
			stats.FilteredExperience++
		default:
			stats.FilteredRelevance++
		}
	}
}
