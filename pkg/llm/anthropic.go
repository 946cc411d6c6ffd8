package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicMaxTokens = 4000

// AnthropicGenerator generates text via the Anthropic Messages API.
type AnthropicGenerator struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// AnthropicOption configures the generator.
type AnthropicOption func(*AnthropicGenerator)

// WithAnthropicMaxTokens overrides the default output token budget.
func WithAnthropicMaxTokens(n int) AnthropicOption {
	return func(g *AnthropicGenerator) {
		if n > 0 {
			g.maxTokens = int64(n)
		}
	}
}

// WithAnthropicRequestOptions passes extra options to the underlying SDK
// client (base URL override for tests, custom HTTP client).
func WithAnthropicRequestOptions(opts ...option.RequestOption) AnthropicOption {
	return func(g *AnthropicGenerator) {
		g.client = sdk.NewClient(opts...)
	}
}

// NewAnthropicGenerator creates an Anthropic-backed Generator.
func NewAnthropicGenerator(apiKey, model string, opts ...AnthropicOption) *AnthropicGenerator {
	g := &AnthropicGenerator{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: defaultAnthropicMaxTokens,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *AnthropicGenerator) Name() string { return "anthropic" }

// Generate sends the prompt as a single user message and concatenates the
// text blocks of the response.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: g.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", eris.New("anthropic: empty response")
	}
	return text, nil
}
