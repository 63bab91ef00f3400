package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
	"github.com/naka-gawa/pr-quality-stats/internal/gateway"
)

// Classifier derives the has-tests, test-exempt and quality flags of a pull request.
type Classifier struct {
	source   gateway.Source
	cache    *ClassificationCache
	signals  []TestSignal
	fallback LabelFallback
	logger   *slog.Logger
}

// NewClassifier creates a classifier reading from source. The cache is shared
// by every classifier of one run. With no signals, DefaultSignals is used.
func NewClassifier(source gateway.Source, cache *ClassificationCache, fallback LabelFallback, logger *slog.Logger, signals ...TestSignal) *Classifier {
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	return &Classifier{
		source:   source,
		cache:    cache,
		signals:  signals,
		fallback: fallback,
		logger:   logger,
	}
}

// Classify builds the ClassifiedPR for a merged pull request. It returns
// domain.ErrExcluded when the label lookup failed and the fallback policy
// drops the pull request.
func (c *Classifier) Classify(ctx context.Context, pr domain.PullRequest) (domain.ClassifiedPR, error) {
	if !pr.IsMerged() {
		return domain.ClassifiedPR{}, fmt.Errorf("pull request %s is not merged", pr.URL)
	}

	labels, err := c.FetchLabels(ctx, pr)
	if err != nil {
		return domain.ClassifiedPR{}, err
	}

	hasTests, err := c.HasTests(ctx, pr, labels)
	if err != nil {
		return domain.ClassifiedPR{}, err
	}

	return domain.ClassifiedPR{
		Repo:         pr.RepoName,
		URL:          pr.URL,
		Author:       pr.Author,
		Title:        pr.Title,
		Avatar:       pr.AvatarURL,
		MergedAt:     *pr.MergedAt,
		HasTests:     hasTests,
		IsTestExempt: IsTestExempt(labels),
		IsQuality:    IsQuality(labels),
	}, nil
}

// FetchLabels returns the labels of the pull request's issue. When the lookup
// fails, the labels carried by the listing are used if there are any; only
// then does the fallback policy apply. A failed lookup never fails the caller
// unless the policy is FallbackExclude.
func (c *Classifier) FetchLabels(ctx context.Context, pr domain.PullRequest) ([]domain.Label, error) {
	labels, err := c.source.IssueLabels(ctx, pr.Repository, pr.Number)
	if err == nil {
		return labels, nil
	}
	if len(pr.Labels) > 0 {
		c.logger.Warn("label lookup failed, using listed labels", "pr", pr.URL, "error", err)
		return pr.Labels, nil
	}

	c.logger.Warn("label lookup failed, applying fallback", "pr", pr.URL, "fallback", c.fallback, "error", err)
	switch c.fallback {
	case FallbackNone:
		return nil, nil
	case FallbackExclude:
		return nil, fmt.Errorf("%s: %w", pr.URL, domain.ErrExcluded)
	default:
		return []domain.Label{{Name: QualityLabel}}, nil
	}
}

// HasTests evaluates the test signals in order against the pull request's
// diff and labels. The diff is downloaded at most once per locator.
func (c *Classifier) HasTests(ctx context.Context, pr domain.PullRequest, labels []domain.Label) (bool, error) {
	if pr.DiffURL == "" {
		return c.match(Evidence{Labels: labels}), nil
	}
	return c.cache.Do(pr.DiffURL, func() (bool, error) {
		raw, err := c.source.RawDiff(ctx, pr.DiffURL)
		if err != nil {
			return false, err
		}
		return c.match(Evidence{Diff: strings.ToValidUTF8(string(raw), "\uFFFD"), Labels: labels}), nil
	})
}

func (c *Classifier) match(e Evidence) bool {
	for _, s := range c.signals {
		if s.Match(e) {
			c.logger.Debug("test signal matched", "signal", s.Name())
			return true
		}
	}
	return false
}
