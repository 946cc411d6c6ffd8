package enhance

import (
	"context"

	"go.uber.org/zap"

	"github.com/copydesk/enhance-cli/internal/extract"
	"github.com/copydesk/enhance-cli/internal/fetch"
	"github.com/copydesk/enhance-cli/internal/model"
	"github.com/copydesk/enhance-cli/internal/search"
)

const (
	// defaultMinContentLen is the acceptance threshold for an extracted
	// reference; shorter extractions usually mean a consent wall or an
	// index page.
	defaultMinContentLen = 200

	// defaultReferenceCap bounds stored reference content.
	defaultReferenceCap = 5000
)

// Collector turns search candidates into usable reference documents by
// fetching each candidate and extracting its readable text.
type Collector struct {
	searcher  *search.Chain
	fetcher   *fetch.Fetcher
	extractor *extract.Extractor
	gate      *fetch.Gate

	minContentLen int
	referenceCap  int
}

// CollectorOption configures the Collector.
type CollectorOption func(*Collector)

// WithMinContentLen overrides the extraction acceptance threshold.
func WithMinContentLen(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.minContentLen = n
		}
	}
}

// WithReferenceCap overrides the per-reference content cap.
func WithReferenceCap(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.referenceCap = n
		}
	}
}

// NewCollector creates a Collector. The gate spaces successive candidate
// fetches so we do not hammer the hosts search sends us to.
func NewCollector(searcher *search.Chain, fetcher *fetch.Fetcher, extractor *extract.Extractor, gate *fetch.Gate, opts ...CollectorOption) *Collector {
	c := &Collector{
		searcher:      searcher,
		fetcher:       fetcher,
		extractor:     extractor,
		gate:          gate,
		minContentLen: defaultMinContentLen,
		referenceCap:  defaultReferenceCap,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs the provider chain for the article title and returns the
// filtered candidates.
func (c *Collector) Search(ctx context.Context, title string) []model.ReferenceCandidate {
	return c.searcher.Search(ctx, title)
}

// Collect fetches and extracts each candidate in order. Per-candidate
// failures are logged and skipped; they never abort remaining candidates.
// An empty result is a valid outcome.
func (c *Collector) Collect(ctx context.Context, candidates []model.ReferenceCandidate) []model.ReferenceDocument {
	var docs []model.ReferenceDocument

	for _, cand := range candidates {
		if err := c.gate.Wait(ctx); err != nil {
			zap.L().Warn("collect: canceled while waiting for fetch slot", zap.Error(err))
			return docs
		}

		body, err := c.fetcher.Get(ctx, cand.URL)
		if err != nil {
			zap.L().Warn("collect: reference fetch failed, skipping",
				zap.String("url", cand.URL),
				zap.Error(err),
			)
			continue
		}

		content := c.extractor.Extract(string(body))
		if len(content) <= c.minContentLen {
			zap.L().Debug("collect: extracted too little text, skipping",
				zap.String("url", cand.URL),
				zap.Int("length", len(content)),
			)
			continue
		}

		docs = append(docs, model.ReferenceDocument{
			Title:   cand.Title,
			URL:     cand.URL,
			Content: capString(content, c.referenceCap),
		})
	}

	return docs
}
