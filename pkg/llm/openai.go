package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"
)

// OpenAIGenerator generates text via the OpenAI Chat Completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  openai.ChatModel
}

// OpenAIOption configures the generator.
type OpenAIOption func(*OpenAIGenerator)

// WithOpenAIRequestOptions rebuilds the underlying SDK client with extra
// options (base URL override for tests, custom HTTP client).
func WithOpenAIRequestOptions(opts ...option.RequestOption) OpenAIOption {
	return func(g *OpenAIGenerator) {
		client := openai.NewClient(opts...)
		g.client = &client
	}
}

// NewOpenAIGenerator creates an OpenAI-backed Generator.
func NewOpenAIGenerator(apiKey, model string, opts ...OpenAIOption) *OpenAIGenerator {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	g := &OpenAIGenerator{
		client: &client,
		model:  openai.ChatModel(model),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *OpenAIGenerator) Name() string { return "openai" }

// Generate sends the prompt as a chat completion and returns the first
// choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "openai: chat completion")
	}

	if len(resp.Choices) == 0 {
		return "", eris.New("openai: no choices returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", eris.New("openai: empty response")
	}
	return text, nil
}
