// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Label is a name attached to a pull request's issue.
type Label struct {
	Name string `json:"name"`
}

// PullRequest is a pull request as returned by the source hosting API.
// It is read-only to this application.
type PullRequest struct {
	Number     int
	Repository string // full "owner/name" of the base repository
	RepoName   string // short repository name used for grouping
	URL        string // web URL
	Author     string
	Title      string
	AvatarURL  string
	MergedAt   *time.Time
	UpdatedAt  time.Time
	DiffURL    string // diff-content locator
	Labels     []Label
}

// IsMerged reports whether the pull request carries a merge timestamp.
func (p PullRequest) IsMerged() bool {
	return p.MergedAt != nil
}

// ClassifiedPR is the immutable record built once per merged pull request.
type ClassifiedPR struct {
	Repo         string    `json:"repo"`
	URL          string    `json:"url"`
	Author       string    `json:"author"`
	Title        string    `json:"title"`
	Avatar       string    `json:"avatar"`
	MergedAt     time.Time `json:"merged_at"`
	HasTests     bool      `json:"has_tests"`
	IsTestExempt bool      `json:"is_test_exempt"`
	IsQuality    bool      `json:"is_quality"`
}
