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

const defaultGoogleBaseURL = "https://www.google.com/search"

// GoogleHTMLProvider scrapes Google's result page directly with a
// browser-like request. Cheaper than SerpAPI, brittle against markup
// changes; sits mid-chain.
type GoogleHTMLProvider struct {
	baseURL string
	fetcher *fetch.Fetcher
}

// NewGoogleHTMLProvider creates the direct Google scraper. baseURL is
// overridable for tests; empty means the real search endpoint.
func NewGoogleHTMLProvider(fetcher *fetch.Fetcher, baseURL string) *GoogleHTMLProvider {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	return &GoogleHTMLProvider{baseURL: baseURL, fetcher: fetcher}
}

func (p *GoogleHTMLProvider) Name() string { return "google_html" }

// Search fetches the result page and parses result blocks.
func (p *GoogleHTMLProvider) Search(ctx context.Context, query string) ([]model.ReferenceCandidate, error) {
	searchURL := p.baseURL + "?q=" + url.QueryEscape(query)

	body, err := p.fetcher.Get(ctx, searchURL)
	if err != nil {
		return nil, eris.Wrap(err, "google_html: fetch results")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "google_html: parse results")
	}

	var candidates []model.ReferenceCandidate
	doc.Find("div.g").Each(func(_ int, block *goquery.Selection) {
		title := strings.TrimSpace(block.Find("h3").First().Text())
		href, _ := block.Find("a").First().Attr("href")
		snippet := strings.TrimSpace(block.Find(".VwiC3b, .st").First().Text())

		if title == "" || !strings.HasPrefix(href, "http") {
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
