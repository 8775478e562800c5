package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Posting is a single job listing as reported by one source at one point
// in time. Fields are already cleaned by the normalizer; Posted stays
// opaque (relative text, ISO date, epoch, or empty) until the freshness
// pass interprets it.
type Posting struct {
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Source      string
	Posted      string
	Salary      string
	JobType     string
	FetchedAt   time.Time
}

// Fingerprint derives the stable dedup identity for a posting. Two
// postings with the same lower-cased (title, company, source) collapse to
// one logical job no matter how the description or URL differ. The format
// (first 16 hex chars of an md5) is part of the persisted dedup contract
// and must not change across versions.
func Fingerprint(title, company, source string) string {
	text := strings.ToLower(title + "_" + company + "_" + source)
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}
