package enhance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/copydesk/enhance-cli/internal/model"
	"github.com/copydesk/enhance-cli/pkg/llm"
)

// Enhancer rewrites an article against reference documents using a primary
// generative backend with a one-shot fallback to a secondary one.
type Enhancer struct {
	primary   llm.Generator
	secondary llm.Generator
	refLen    int
}

// NewEnhancer creates an Enhancer. Either generator may be nil; if both are,
// Enhance fails with ErrNoBackendConfigured.
func NewEnhancer(primary, secondary llm.Generator, promptRefLen int) *Enhancer {
	return &Enhancer{primary: primary, secondary: secondary, refLen: promptRefLen}
}

// Configured reports whether at least one backend is available. Callers use
// it to reject enhancement requests before doing any search or scrape work.
func (e *Enhancer) Configured() bool {
	return e.primary != nil || e.secondary != nil
}

// Enhance builds the prompt and invokes the backends. The primary is tried
// first; on any failure the secondary gets exactly one attempt before the
// combined failure surfaces.
func (e *Enhancer) Enhance(ctx context.Context, article model.Article, refs []model.ReferenceDocument) (string, string, error) {
	if !e.Configured() {
		return "", "", ErrNoBackendConfigured
	}

	prompt := buildPrompt(article, refs, e.refLen)

	first, second := e.primary, e.secondary
	if first == nil {
		first, second = second, nil
	}

	text, err := first.Generate(ctx, prompt)
	if err == nil {
		return text, first.Name(), nil
	}

	if second == nil {
		return "", "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	zap.L().Warn("enhance: primary backend failed, falling back",
		zap.String("primary", first.Name()),
		zap.String("fallback", second.Name()),
		zap.Error(err),
	)

	text, fbErr := second.Generate(ctx, prompt)
	if fbErr != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGenerationFailed, fbErr)
	}
	return text, second.Name(), nil
}
