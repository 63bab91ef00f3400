package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
	"github.com/naka-gawa/pr-quality-stats/internal/gateway"
)

// mockSource is a mock implementation of the gateway.Source interface.
type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListClosedPullRequests(ctx context.Context, repo, base string, page int) ([]domain.PullRequest, error) {
	args := m.Called(ctx, repo, base, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockSource) IssueLabels(ctx context.Context, repo string, number int) ([]domain.Label, error) {
	args := m.Called(ctx, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Label), args.Error(1)
}

func (m *mockSource) RawDiff(ctx context.Context, locator string) ([]byte, error) {
	args := m.Called(ctx, locator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// staticPool always hands out the same source.
type staticPool struct {
	src gateway.Source
}

func (p staticPool) Next() gateway.Source { return p.src }
func (p staticPool) Size() int            { return 1 }

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 12, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// mergedPR builds a pull request merged and last updated on the given days.
func mergedPR(number, merged, updated int) domain.PullRequest {
	return domain.PullRequest{
		Number:     number,
		Repository: "org/repo",
		RepoName:   "repo",
		URL:        fmt.Sprintf("https://example/org/repo/pull/%d", number),
		DiffURL:    fmt.Sprintf("https://api.example/repos/org/repo/pulls/%d", number),
		Author:     "kalecser",
		MergedAt:   ptr(day(merged)),
		UpdatedAt:  day(updated),
	}
}

func closedPR(number, updated int) domain.PullRequest {
	pr := mergedPR(number, 0, updated)
	pr.MergedAt = nil
	return pr
}
