// Package team maps pull request authors to organizational teams.
package team

import (
	"fmt"

	"github.com/naka-gawa/pr-quality-stats/internal/config"
)

// UnknownTeam is the prefix of the team label returned for authors that
// belong to no configured team.
const UnknownTeam = "Unknown team"

// Resolver resolves author logins to team names. It is safe for concurrent use.
type Resolver struct {
	teams []team
}

type team struct {
	name    string
	members map[string]struct{}
}

// NewResolver builds a resolver preserving the configured team order.
func NewResolver(cfg *config.Teams) *Resolver {
	r := &Resolver{teams: make([]team, 0, len(cfg.Teams))}
	for _, t := range cfg.Teams {
		members := make(map[string]struct{}, len(t.Members))
		for _, m := range t.Members {
			members[m] = struct{}{}
		}
		r.teams = append(r.teams, team{name: t.Name, members: members})
	}
	return r
}

// Resolve returns the first team containing author. Unknown authors resolve
// to a label that still names the author.
func (r *Resolver) Resolve(author string) string {
	for _, t := range r.teams {
		if _, ok := t.members[author]; ok {
			return t.name
		}
	}
	return fmt.Sprintf("%s (%s)", UnknownTeam, author)
}
