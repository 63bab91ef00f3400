// Package config loads the environment configuration and the static
// repository catalog and team tables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// Env holds settings read from the process environment (and an optional .env file).
type Env struct {
	// github credentials
	AccessToken  string   `env:"GITHUB_ACCESS_TOKEN"`
	AccessTokens []string `env:"GITHUB_ACCESS_TOKENS" env-separator:","`
	APIURL       string   `env:"GITHUB_API_URL"`

	// dashboard sink
	DashboardURL       string `env:"DASHBOARD_URL"`
	DashboardAuthToken string `env:"DASHBOARD_AUTH_TOKEN"`

	// logging configuration
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`
}

// LoadEnv reads the environment configuration.
func LoadEnv() (*Env, error) {
	var cfg Env

	if err := cleanenv.ReadConfig(".env", &cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read dotenv file: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return &cfg, nil
}

// Tokens returns every configured access token, deduplicated, in the order
// they were configured. It fails with domain.ErrMissingCredential when none is set.
func (e *Env) Tokens() ([]string, error) {
	seen := make(map[string]bool)
	var tokens []string
	for _, t := range append([]string{e.AccessToken}, e.AccessTokens...) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil, domain.ErrMissingCredential
	}
	return tokens, nil
}
