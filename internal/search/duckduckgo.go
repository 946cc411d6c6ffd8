package search

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/copydesk/enhance-cli/internal/fetch"
	"github.com/copydesk/enhance-cli/internal/model"
)

const defaultDuckDuckGoBaseURL = "https://html.duckduckgo.com/html/"

// DuckDuckGoProvider scrapes DuckDuckGo's plain-HTML results page. Final
// tier of the chain; the HTML endpoint tolerates non-browser clients.
type DuckDuckGoProvider struct {
	baseURL string
	fetcher *fetch.Fetcher
}

// NewDuckDuckGoProvider creates the DuckDuckGo HTML scraper.
func NewDuckDuckGoProvider(fetcher *fetch.Fetcher, baseURL string) *DuckDuckGoProvider {
	if baseURL == "" {
		baseURL = defaultDuckDuckGoBaseURL
	}
	return &DuckDuckGoProvider{baseURL: baseURL, fetcher: fetcher}
}

func (p *DuckDuckGoProvider) Name() string { return "duckduckgo" }

// Search fetches the result page and parses .result blocks.
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string) ([]model.ReferenceCandidate, error) {
	searchURL := p.baseURL + "?q=" + url.QueryEscape(query)

	body, err := p.fetcher.Get(ctx, searchURL)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: fetch results")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: parse results")
	}

	var candidates []model.ReferenceCandidate
	doc.Find(".result").Each(func(_ int, block *goquery.Selection) {
		link := block.Find(".result__title a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(block.Find(".result__snippet").First().Text())

		if title == "" || href == "" {
			return
		}
		candidates = append(candidates, model.ReferenceCandidate{
			Title:   title,
			URL:     href,
			Snippet: snippet,
		})
	})

	return candidates, nil
}
