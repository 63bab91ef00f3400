package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"gopkg.in/yaml.v3"
)

// Ecosystem buckets decide the default base branch of a repository.
const (
	EcosystemStandard    = "standard"
	EcosystemDevelopment = "development"
)

var defaultBaseByEcosystem = map[string]string{
	EcosystemStandard:    "master",
	EcosystemDevelopment: "develop",
}

//go:embed defaults/catalog.yaml
var defaultCatalog []byte

// Repository is one catalog entry.
type Repository struct {
	Name      string   `yaml:"name"`
	Ecosystem string   `yaml:"ecosystem"`
	Bases     []string `yaml:"bases"`
}

// Validate checks a single catalog entry.
func (r Repository) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.By(isFullName)),
		validation.Field(&r.Ecosystem, validation.In(EcosystemStandard, EcosystemDevelopment)),
	)
}

// BaseBranches returns the explicit bases, or the ecosystem's default base.
func (r Repository) BaseBranches() []string {
	if len(r.Bases) > 0 {
		return r.Bases
	}
	eco := r.Ecosystem
	if eco == "" {
		eco = EcosystemStandard
	}
	return []string{defaultBaseByEcosystem[eco]}
}

// Catalog is the static list of repositories polled every run.
type Catalog struct {
	Repositories []Repository `yaml:"repositories"`
}

// Validate checks every entry and rejects duplicates.
func (c *Catalog) Validate() error {
	if len(c.Repositories) == 0 {
		return errors.New("catalog has no repositories")
	}
	seen := make(map[string]bool)
	for i, r := range c.Repositories {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("repository #%d: %w", i, err)
		}
		if seen[r.Name] {
			return fmt.Errorf("repository %q listed twice", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// LoadCatalog reads the catalog from path, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

func isFullName(value interface{}) error {
	s, _ := value.(string)
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return errors.New("must be in owner/name form")
	}
	return nil
}
