// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
	"github.com/naka-gawa/pr-quality-stats/internal/gateway"
)

// Fetcher retrieves merged pull requests newer than a cutoff, paging through
// closed pull requests sorted by update time, newest first.
type Fetcher struct {
	logger *slog.Logger
}

// NewFetcher creates a new Fetcher instance.
func NewFetcher(logger *slog.Logger) *Fetcher {
	return &Fetcher{logger: logger}
}

// Fetch returns the merged pull requests of repo against base whose merge
// time is on or after cutoff.
//
// Paging stops after the first page holding a pull request updated before
// cutoff, or at the first empty page. The whole page is scanned before
// stopping, so ordering glitches within a page cannot hide a qualifying pull
// request. Pull requests updated before cutoff are never returned.
func (f *Fetcher) Fetch(ctx context.Context, src gateway.Source, repo, base string, cutoff time.Time) ([]domain.PullRequest, error) {
	var results []domain.PullRequest
	for page := 1; ; page++ {
		prs, err := src.ListClosedPullRequests(ctx, repo, base, page)
		if err != nil {
			return nil, err
		}
		if len(prs) == 0 {
			break
		}

		crossed := false
		for _, pr := range prs {
			if pr.UpdatedAt.Before(cutoff) {
				crossed = true
				continue
			}
			if !pr.IsMerged() || pr.MergedAt.Before(cutoff) {
				continue
			}
			results = append(results, pr)
		}
		if crossed {
			f.logger.Debug("cutoff crossed", "repo", repo, "base", base, "page", page)
			break
		}
	}
	f.logger.Info("fetched merged pull requests", "repo", repo, "base", base, "count", len(results))
	return results, nil
}
