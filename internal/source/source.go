// Package source fetches raw job postings from remote boards and APIs.
// Each connector normalizes its payload into domain.Posting and treats
// its own failures as a zero contribution, never as a run failure.
package source

import (
	"context"

	"github.com/tanishq20011430/job-watchdog/internal/domain"
)

// Fetcher is one posting source. Fetch returns whatever the source has
// for the given keywords; connectors that do not support keyword search
// ignore the argument.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, keywords []string) ([]domain.Posting, error)
}
