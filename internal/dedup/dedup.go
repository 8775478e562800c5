// Package dedup drops postings already seen, either earlier in the same
// batch or in a previous scan. Identity is the posting fingerprint, so
// the same role reposted by the same company on the same board collapses
// to one record.
package dedup

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// Filter returns the postings whose fingerprints are not in known,
// keeping the first occurrence of each fingerprint within the batch.
// known is extended with the fingerprints of the postings kept.
func Filter(postings []domain.Posting, known mapset.Set[string]) []domain.Posting {
	if known == nil {
		known = mapset.NewThreadUnsafeSet[string]()
	}
	out := make([]domain.Posting, 0, len(postings))
	for _, p := range postings {
		fp := domain.Fingerprint(p.Title, p.Company, p.Source)
		if known.Contains(fp) {
			continue
		}
		known.Add(fp)
		out = append(out, p)
	}
	return out
}
