package gateway

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// Pool hands out sources round-robin so that API rate limits are spread
// across every configured credential.
type Pool struct {
	sources []Source
	next    atomic.Uint64
}

// NewPool creates a pool over sources. At least one source is required.
func NewPool(sources ...Source) (*Pool, error) {
	if len(sources) == 0 {
		return nil, domain.ErrMissingCredential
	}
	return &Pool{sources: sources}, nil
}

// NewGitHubPool creates one GitHub gateway per token.
func NewGitHubPool(tokens []string, apiURL string, logger *slog.Logger) (*Pool, error) {
	sources := make([]Source, 0, len(tokens))
	for i, token := range tokens {
		g, err := NewGitHubGateway(token, apiURL, logger.With("credential", i))
		if err != nil {
			return nil, fmt.Errorf("credential #%d: %w", i, err)
		}
		sources = append(sources, g)
	}
	return NewPool(sources...)
}

// Next returns the next source in rotation.
func (p *Pool) Next() Source {
	i := p.next.Add(1) - 1
	return p.sources[i%uint64(len(p.sources))]
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	return len(p.sources)
}
