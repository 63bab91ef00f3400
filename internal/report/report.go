// Package report turns a run's classified pull requests into dashboard metrics.
// Every function is pure.
package report

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// TopN is the length of every ranked list sent to the dashboard.
const TopN = 5

// TeamResolver maps an author login to a team name.
type TeamResolver interface {
	Resolve(author string) string
}

// Artifact is the most recent quality pull request's author picture and link.
type Artifact struct {
	Image string
	Link  string
}

// QualitySubset returns the quality-flagged pull requests.
func QualitySubset(prs []domain.ClassifiedPR) []domain.ClassifiedPR {
	return filter(prs, func(pr domain.ClassifiedPR) bool { return pr.IsQuality })
}

// TestedSubset returns the pull requests that ship tests.
func TestedSubset(prs []domain.ClassifiedPR) []domain.ClassifiedPR {
	return filter(prs, func(pr domain.ClassifiedPR) bool { return pr.HasTests })
}

// TestEligibleSubset returns the pull requests that are not test-exempt.
func TestEligibleSubset(prs []domain.ClassifiedPR) []domain.ClassifiedPR {
	return filter(prs, func(pr domain.ClassifiedPR) bool { return !pr.IsTestExempt })
}

// TopQualityAuthors ranks authors by number of quality pull requests.
func TopQualityAuthors(prs []domain.ClassifiedPR, n int) []domain.Item {
	return rankCounts(QualitySubset(prs), n, func(pr domain.ClassifiedPR) string { return pr.Author })
}

// TopQualityTeams ranks teams by number of quality pull requests.
func TopQualityTeams(prs []domain.ClassifiedPR, n int, teams TeamResolver) []domain.Item {
	return rankCounts(QualitySubset(prs), n, func(pr domain.ClassifiedPR) string { return teams.Resolve(pr.Author) })
}

// TopTestTeams ranks teams by test percentage over all their pull requests, best first.
func TopTestTeams(prs []domain.ClassifiedPR, n int, teams TeamResolver) []domain.Item {
	groups := groupBy(prs, func(pr domain.ClassifiedPR) string { return teams.Resolve(pr.Author) })
	return rankPercentages(groups, n, true)
}

// LowestTestPercentageByRepository ranks repositories by test percentage, worst first.
func LowestTestPercentageByRepository(prs []domain.ClassifiedPR, n int) []domain.Item {
	groups := groupBy(prs, func(pr domain.ClassifiedPR) string { return pr.Repo })
	return rankPercentages(groups, n, false)
}

// QualityPercentage returns the share of quality pull requests. It fails with
// domain.ErrNoPullRequests on an empty collection.
func QualityPercentage(prs []domain.ClassifiedPR) (int, error) {
	if len(prs) == 0 {
		return 0, domain.ErrNoPullRequests
	}
	return percentage(len(QualitySubset(prs)), len(prs)), nil
}

// TestPercentage returns the share of tested pull requests among the
// test-eligible ones, or 0 when none is eligible.
func TestPercentage(prs []domain.ClassifiedPR) int {
	eligible := TestEligibleSubset(prs)
	if len(eligible) == 0 {
		return 0
	}
	return percentage(len(TestedSubset(eligible)), len(eligible))
}

// MostRecentQualityArtifact returns the latest merged quality pull request's
// avatar and URL. ok is false when no pull request is quality-flagged.
func MostRecentQualityArtifact(prs []domain.ClassifiedPR) (artifact Artifact, ok bool) {
	var latest time.Time
	for _, pr := range QualitySubset(prs) {
		if !ok || pr.MergedAt.After(latest) {
			artifact = Artifact{Image: pr.Avatar, Link: pr.URL}
			latest = pr.MergedAt
			ok = true
		}
	}
	return artifact, ok
}

// percentage rounds half up.
func percentage(part, total int) int {
	rounded, _ := stats.Round(100*float64(part)/float64(total), 0)
	return int(rounded)
}

func filter(prs []domain.ClassifiedPR, keep func(domain.ClassifiedPR) bool) []domain.ClassifiedPR {
	out := make([]domain.ClassifiedPR, 0, len(prs))
	for _, pr := range prs {
		if keep(pr) {
			out = append(out, pr)
		}
	}
	return out
}

func groupBy(prs []domain.ClassifiedPR, key func(domain.ClassifiedPR) string) map[string][]domain.ClassifiedPR {
	groups := make(map[string][]domain.ClassifiedPR)
	for _, pr := range prs {
		k := key(pr)
		groups[k] = append(groups[k], pr)
	}
	return groups
}

func rankCounts(prs []domain.ClassifiedPR, n int, key func(domain.ClassifiedPR) string) []domain.Item {
	groups := groupBy(prs, key)
	items := make([]domain.Item, 0, len(groups))
	for label, group := range groups {
		items = append(items, domain.Item{Label: label, Value: len(group)})
	}
	return top(items, n, true)
}

func rankPercentages(groups map[string][]domain.ClassifiedPR, n int, descending bool) []domain.Item {
	items := make([]domain.Item, 0, len(groups))
	for label, group := range groups {
		items = append(items, domain.Item{Label: label, Value: TestPercentage(group)})
	}
	return top(items, n, descending)
}

// top sorts by value, breaking ties by label, and keeps the first n.
func top(items []domain.Item, n int, descending bool) []domain.Item {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			if descending {
				return items[i].Value > items[j].Value
			}
			return items[i].Value < items[j].Value
		}
		return items[i].Label < items[j].Label
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
