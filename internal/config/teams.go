package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/teams.yaml
var defaultTeams []byte

// Team maps a set of author logins to one team name.
type Team struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Validate checks a single team.
func (t Team) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Members, validation.Required),
	)
}

// Teams is the ordered team-membership table. Member sets are expected to be
// disjoint; see Overlaps.
type Teams struct {
	Teams []Team `yaml:"teams"`
}

// Validate checks every team.
func (t *Teams) Validate() error {
	if len(t.Teams) == 0 {
		return errors.New("no teams defined")
	}
	for i, team := range t.Teams {
		if err := team.Validate(); err != nil {
			return fmt.Errorf("team #%d: %w", i, err)
		}
	}
	return nil
}

// Overlaps returns every login that appears in more than one team.
func (t *Teams) Overlaps() []string {
	owner := make(map[string]string)
	var dup []string
	for _, team := range t.Teams {
		for _, m := range team.Members {
			if prev, ok := owner[m]; ok && prev != team.Name {
				dup = append(dup, m)
				continue
			}
			owner[m] = team.Name
		}
	}
	return dup
}

// LoadTeams reads the team table from path, or the embedded default when path is empty.
func LoadTeams(path string) (*Teams, error) {
	data := defaultTeams
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read teams: %w", err)
		}
	}
	var t Teams
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse teams: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid teams: %w", err)
	}
	return &t, nil
}
