// Package search finds candidate reference articles for a topic via a chain
// of web-search providers tried in priority order.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/copydesk/enhance-cli/internal/model"
)

// Provider is a single search backend. Implementations return raw,
// relevance-ordered candidates; filtering and capping happen in the chain.
type Provider interface {
	Search(ctx context.Context, query string) ([]model.ReferenceCandidate, error)
	Name() string
}

// Chain tries providers in order until one yields at least one candidate.
// Provider failures are absorbed; an empty result from every provider is a
// valid outcome, not an error.
type Chain struct {
	providers []Provider
	filter    *Filter
}

// NewChain creates a Chain over the given providers. Order matters: the
// first provider with any usable result wins.
func NewChain(filter *Filter, providers ...Provider) *Chain {
	return &Chain{providers: providers, filter: filter}
}

// Search runs the provider chain for a query and returns filtered, capped
// candidates. The topical hint steers results toward published articles.
func (c *Chain) Search(ctx context.Context, query string) []model.ReferenceCandidate {
	query = query + " blog article"

	for _, p := range c.providers {
		results, err := p.Search(ctx, query)
		if err != nil {
			zap.L().Debug("search: provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}

		filtered := c.filter.Apply(results)
		if len(filtered) > 0 {
			zap.L().Info("search: provider returned candidates",
				zap.String("provider", p.Name()),
				zap.Int("raw", len(results)),
				zap.Int("filtered", len(filtered)),
			)
			return filtered
		}
	}

	return nil
}
