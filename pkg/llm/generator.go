// Package llm provides interchangeable generative-text backends behind a
// single Generator contract.
package llm

import "context"

// systemPrompt frames every generation request, regardless of backend.
const systemPrompt = "You are an expert content editor specializing in creating high-quality, SEO-optimized blog articles."

// Generator produces text from a single prompt. Backends are interchangeable:
// identical prompts in, generated markdown out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
