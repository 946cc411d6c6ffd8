package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/copydesk/enhance-cli/internal/model"
)

const defaultSerpBaseURL = "https://serpapi.com/search.json"

// serpResultCount is how many raw organic results we request; filtering
// narrows them down afterwards.
const serpResultCount = 10

// SerpProvider queries SerpAPI's structured Google results. It is the first
// tier of the chain when an API key is configured.
type SerpProvider struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// SerpOption configures the provider.
type SerpOption func(*SerpProvider)

// WithSerpBaseURL overrides the API base URL.
func WithSerpBaseURL(u string) SerpOption {
	return func(p *SerpProvider) {
		p.baseURL = u
	}
}

// WithSerpHTTPClient overrides the default http.Client.
func WithSerpHTTPClient(hc *http.Client) SerpOption {
	return func(p *SerpProvider) {
		p.http = hc
	}
}

// NewSerpProvider creates a SerpAPI search provider.
func NewSerpProvider(apiKey string, opts ...SerpOption) *SerpProvider {
	p := &SerpProvider{
		apiKey:  apiKey,
		baseURL: defaultSerpBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *SerpProvider) Name() string { return "serpapi" }

type serpResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Search requests organic results for the query.
func (p *SerpProvider) Search(ctx context.Context, query string) ([]model.ReferenceCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", p.apiKey)
	params.Set("num", strconv.Itoa(serpResultCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: create request")
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: send request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("serpapi: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result serpResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "serpapi: unmarshal response")
	}

	candidates := make([]model.ReferenceCandidate, 0, len(result.OrganicResults))
	for _, r := range result.OrganicResults {
		candidates = append(candidates, model.ReferenceCandidate{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}
	return candidates, nil
}
