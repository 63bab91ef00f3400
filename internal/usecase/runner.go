package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/pr-quality-stats/internal/config"
	"github.com/naka-gawa/pr-quality-stats/internal/domain"
	"github.com/naka-gawa/pr-quality-stats/internal/gateway"
)

// SourcePool hands out sources, one per repository.
type SourcePool interface {
	Next() gateway.Source
	Size() int
}

// RunOptions tunes a Runner.
type RunOptions struct {
	Cutoff        time.Time
	LabelFallback LabelFallback
	// Concurrency is the number of repositories processed at once. Values
	// below 1 mean sequential processing.
	Concurrency int
}

// Runner drives the catalog, fetch and classify loop for one run.
type Runner struct {
	pool    SourcePool
	catalog *config.Catalog
	fetcher *Fetcher
	opts    RunOptions
	logger  *slog.Logger
}

// NewRunner creates a new Runner instance.
func NewRunner(pool SourcePool, catalog *config.Catalog, opts RunOptions, logger *slog.Logger) *Runner {
	if opts.LabelFallback == "" {
		opts.LabelFallback = FallbackQuality
	}
	return &Runner{
		pool:    pool,
		catalog: catalog,
		fetcher: NewFetcher(logger.With("component", "fetcher")),
		opts:    opts,
		logger:  logger,
	}
}

// Run fetches and classifies the merged pull requests of every catalog
// repository. Results keep catalog order. Any page or diff failure aborts the
// whole run.
func (r *Runner) Run(ctx context.Context) ([]domain.ClassifiedPR, error) {
	if r.pool == nil || r.pool.Size() == 0 {
		return nil, domain.ErrMissingCredential
	}
	r.logger.Info("starting run", "repositories", len(r.catalog.Repositories), "cutoff", r.opts.Cutoff.Format(time.DateOnly))

	cache := NewClassificationCache()
	perRepo := make([][]domain.ClassifiedPR, len(r.catalog.Repositories))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(r.opts.Concurrency, 1))
	for i, repo := range r.catalog.Repositories {
		src := r.pool.Next()
		eg.Go(func() error {
			var err error
			perRepo[i], err = r.runRepository(egCtx, src, cache, repo)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var results []domain.ClassifiedPR
	for _, prs := range perRepo {
		results = append(results, prs...)
	}
	r.logger.Info("run complete", "pull_requests", len(results), "cached_diffs", cache.Len())
	return results, nil
}

func (r *Runner) runRepository(ctx context.Context, src gateway.Source, cache *ClassificationCache, repo config.Repository) ([]domain.ClassifiedPR, error) {
	logger := r.logger.With("repo", repo.Name)
	classifier := NewClassifier(src, cache, r.opts.LabelFallback, logger.With("component", "classifier"))

	var results []domain.ClassifiedPR
	for _, base := range repo.BaseBranches() {
		prs, err := r.fetcher.Fetch(ctx, src, repo.Name, base, r.opts.Cutoff)
		if err != nil {
			return nil, err
		}
		for _, pr := range prs {
			c, err := classifier.Classify(ctx, pr)
			if errors.Is(err, domain.ErrExcluded) {
				logger.Warn("pull request excluded", "pr", pr.URL)
				continue
			}
			if err != nil {
				return nil, err
			}
			logger.Info("classified",
				"base", base,
				"url", c.URL,
				"author", c.Author,
				"title", c.Title,
				"has_tests", c.HasTests,
				"test_exempt", c.IsTestExempt,
				"quality", c.IsQuality)
			results = append(results, c)
		}
	}
	return results, nil
}
