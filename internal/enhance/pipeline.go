// Package enhance implements the content-enhancement pipeline: search for
// competing articles, extract their text, and rewrite the original through a
// generative backend.
package enhance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/copydesk/enhance-cli/internal/model"
)

// State names a pipeline stage, recorded for logging and failure reporting.
type State string

const (
	StateNotStarted State = "not_started"
	StateSearching  State = "searching"
	StateCollecting State = "collecting"
	StateGenerating State = "generating"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Pipeline orchestrates one article's enhancement. It owns no persistent
// state: each Run is a pure transformation from (article, network) to an
// EnhancementResult, and the caller writes the result back.
type Pipeline struct {
	collector *Collector
	enhancer  *Enhancer
}

// NewPipeline wires the collector and enhancer.
func NewPipeline(collector *Collector, enhancer *Enhancer) *Pipeline {
	return &Pipeline{collector: collector, enhancer: enhancer}
}

// Run executes the full pipeline for one article. Zero search candidates and
// zero extracted references are hard stops; the pipeline never degrades to
// enhancing without grounding references. Callers skip already-enhanced
// articles; Run itself always re-runs fully when invoked.
func (p *Pipeline) Run(ctx context.Context, article model.Article) (*model.EnhancementResult, error) {
	log := zap.L().With(zap.String("article_id", article.ID), zap.String("title", article.Title))

	if !p.enhancer.Configured() {
		return nil, ErrNoBackendConfigured
	}

	state := StateSearching
	log.Info("enhance: searching for references")

	candidates := p.collector.Search(ctx, article.Title)
	if len(candidates) == 0 {
		log.Warn("enhance: no search candidates", zap.String("state", string(state)))
		return nil, ErrNoReferencesFound
	}

	state = StateCollecting
	log.Info("enhance: collecting reference content", zap.Int("candidates", len(candidates)))

	docs := p.collector.Collect(ctx, candidates)
	if len(docs) == 0 {
		log.Warn("enhance: no reference content extracted", zap.String("state", string(state)))
		return nil, ErrNoReferenceContent
	}

	state = StateGenerating
	log.Info("enhance: generating enhanced content", zap.Int("references", len(docs)))

	enhanced, backend, err := p.enhancer.Enhance(ctx, article, docs)
	if err != nil {
		log.Error("enhance: generation failed", zap.String("state", string(state)), zap.Error(err))
		return nil, err
	}

	refs := make([]model.Reference, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, model.Reference{Title: d.Title, URL: d.URL})
	}

	log.Info("enhance: done",
		zap.String("backend", backend),
		zap.Int("references_used", len(refs)),
		zap.Int("enhanced_len", len(enhanced)),
	)

	return &model.EnhancementResult{
		EnhancedContent: enhanced,
		References:      refs,
		EnhancedAt:      time.Now().UTC(),
		Backend:         backend,
	}, nil
}
