// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// PageSize is the number of pull requests requested per page.
const PageSize = 100

const diffMediaType = "application/vnd.github.v3.diff"

// Source defines the behavior of a gateway for fetching pull request data from GitHub.
type Source interface {
	// ListClosedPullRequests returns one page of closed pull requests against base,
	// most recently updated first. Pages start at 1.
	ListClosedPullRequests(ctx context.Context, repo, base string, page int) ([]domain.PullRequest, error)
	// IssueLabels returns the labels of the issue backing a pull request.
	IssueLabels(ctx context.Context, repo string, number int) ([]domain.Label, error)
	// RawDiff downloads the unified diff behind a diff locator.
	RawDiff(ctx context.Context, locator string) ([]byte, error)
}

// GitHubGateway is the concrete implementation of the Source interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *slog.Logger
}

// issueLabelsQuery fetches the labels of a single pull request.
type issueLabelsQuery struct {
	Repository struct {
		PullRequest struct {
			Labels struct {
				Nodes []struct {
					Name string
				}
			} `graphql:"labels(first: 100)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway creates a gateway authenticated with token. An empty apiURL
// targets github.com; otherwise it is treated as a GitHub Enterprise base URL.
func NewGitHubGateway(token, apiURL string, logger *slog.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if apiURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(strings.TrimSuffix(apiURL, "/")+"/graphql", httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// ListClosedPullRequests fetches one page of closed pull requests using the REST API.
func (g *GitHubGateway) ListClosedPullRequests(ctx context.Context, repo, base string, page int) ([]domain.PullRequest, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	opts := &github.PullRequestListOptions{
		State:       "closed",
		Base:        base,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{Page: page, PerPage: PageSize},
	}
	g.logger.Debug("listing closed pull requests", "repo", repo, "base", base, "page", page)
	prs, _, err := g.restClient.PullRequests.List(ctx, owner, name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s@%s page %d: %w", repo, base, page, err)
	}

	result := make([]domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr == nil {
			continue
		}
		result = append(result, toDomain(repo, name, pr))
	}
	return result, nil
}

// IssueLabels fetches the labels of a pull request's issue using the GraphQL API.
func (g *GitHubGateway) IssueLabels(ctx context.Context, repo string, number int) ([]domain.Label, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	var q issueLabelsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for labels of %s#%d: %w", repo, number, err)
	}
	labels := make([]domain.Label, 0, len(q.Repository.PullRequest.Labels.Nodes))
	for _, n := range q.Repository.PullRequest.Labels.Nodes {
		labels = append(labels, domain.Label{Name: n.Name})
	}
	return labels, nil
}

// RawDiff downloads the diff representation of the resource at locator.
func (g *GitHubGateway) RawDiff(ctx context.Context, locator string) ([]byte, error) {
	req, err := g.restClient.NewRequest(http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build diff request for %s: %w", locator, err)
	}
	req.Header.Set("Accept", diffMediaType)

	var buf bytes.Buffer
	if _, err := g.restClient.Do(ctx, req, &buf); err != nil {
		return nil, fmt.Errorf("failed to download diff %s: %w", locator, err)
	}
	g.logger.Debug("downloaded diff", "locator", locator, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func toDomain(repo, name string, pr *github.PullRequest) domain.PullRequest {
	out := domain.PullRequest{
		Number:     pr.GetNumber(),
		Repository: repo,
		RepoName:   name,
		URL:        pr.GetHTMLURL(),
		Author:     pr.GetUser().GetLogin(),
		Title:      pr.GetTitle(),
		AvatarURL:  pr.GetUser().GetAvatarURL(),
		UpdatedAt:  pr.GetUpdatedAt().Time,
		DiffURL:    pr.GetURL(),
	}
	if baseName := pr.GetBase().GetRepo().GetName(); baseName != "" {
		out.RepoName = baseName
	}
	if pr.MergedAt != nil {
		merged := pr.MergedAt.Time
		out.MergedAt = &merged
	}
	for _, l := range pr.Labels {
		out.Labels = append(out.Labels, domain.Label{Name: l.GetName()})
	}
	return out
}

func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", repo)
	}
	return owner, name, nil
}
