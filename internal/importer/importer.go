// Package importer crawls one known blog layout and loads its articles into
// the store. It is a single-purpose bootstrap tool, not a general crawler.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/copydesk/enhance-cli/internal/extract"
	"github.com/copydesk/enhance-cli/internal/fetch"
	"github.com/copydesk/enhance-cli/internal/model"
	"github.com/copydesk/enhance-cli/internal/store"
)

// listingConcurrency bounds parallel listing-page fetches. Article bodies
// are imported sequentially through the shared rate gate.
const listingConcurrency = 3

// Candidate is one article link found on a listing page.
type Candidate struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt,omitempty"`
}

// Importer crawls the source blog's listing and article pages.
type Importer struct {
	baseURL string
	fetcher *fetch.Fetcher
	gate    *fetch.Gate
	store   store.Store
}

// New creates an Importer rooted at baseURL (e.g. "https://example.com/blogs").
func New(baseURL string, fetcher *fetch.Fetcher, gate *fetch.Gate, st store.Store) *Importer {
	return &Importer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		fetcher: fetcher,
		gate:    gate,
		store:   st,
	}
}

// ListPage fetches one listing page and returns its article candidates.
func (im *Importer) ListPage(ctx context.Context, page int) ([]Candidate, error) {
	pageURL := fmt.Sprintf("%s/page/%d/", im.baseURL, page)

	body, err := im.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: fetch listing page %d", page)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "importer: parse listing page %d", page)
	}

	var candidates []Candidate
	doc.Find("article, .elementor-post").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("h2 a, h3 a, .elementor-post__title a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		excerpt := strings.TrimSpace(card.Find(".excerpt, p").First().Text())
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}

		if title == "" || href == "" {
			return
		}
		candidates = append(candidates, Candidate{Title: title, URL: href, Excerpt: excerpt})
	})

	return candidates, nil
}

// ListPages fetches several listing pages with bounded concurrency and
// returns all candidates, deduplicated by URL.
func (im *Importer) ListPages(ctx context.Context, startPage, count int) ([]Candidate, error) {
	var (
		mu  sync.Mutex
		all []Candidate
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(listingConcurrency)

	for page := startPage; page < startPage+count; page++ {
		g.Go(func() error {
			candidates, err := im.ListPage(gCtx, page)
			if err != nil {
				// Listing pages past the last one 404; that ends the range, not the run.
				zap.L().Debug("importer: listing page failed", zap.Int("page", page), zap.Error(err))
				return nil
			}
			mu.Lock()
			all = append(all, candidates...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{}, len(all))
	deduped := all[:0]
	for _, c := range all {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		deduped = append(deduped, c)
	}

	return deduped, nil
}

// ImportArticle fetches one article page, extracts its body, and stores it.
// An already-imported URL is skipped and the existing record returned.
func (im *Importer) ImportArticle(ctx context.Context, articleURL string) (*model.Article, bool, error) {
	existing, err := im.store.GetArticleByURL(ctx, articleURL)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := im.gate.Wait(ctx); err != nil {
		return nil, false, err
	}

	body, err := im.fetcher.Get(ctx, articleURL)
	if err != nil {
		return nil, false, eris.Wrapf(err, "importer: fetch article %s", articleURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, false, eris.Wrapf(err, "importer: parse article %s", articleURL)
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return nil, false, eris.Errorf("importer: no title found at %s", articleURL)
	}

	content := extractBody(doc)
	if content == "" {
		return nil, false, eris.Errorf("importer: no content found at %s", articleURL)
	}

	article, err := im.store.CreateArticle(ctx, model.Article{
		Title:       title,
		Content:     content,
		Author:      extractAuthor(doc),
		OriginalURL: articleURL,
		ScrapedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, false, err
	}

	zap.L().Info("importer: article imported",
		zap.String("id", article.ID),
		zap.String("title", title),
		zap.Int("content_len", len(content)),
	)
	return article, true, nil
}

// ImportAll imports every candidate sequentially; individual failures are
// logged and skipped.
func (im *Importer) ImportAll(ctx context.Context, candidates []Candidate) (imported, skipped int) {
	for _, c := range candidates {
		_, created, err := im.ImportArticle(ctx, c.URL)
		if err != nil {
			zap.L().Warn("importer: import failed, skipping",
				zap.String("url", c.URL),
				zap.Error(err),
			)
			continue
		}
		if created {
			imported++
		} else {
			skipped++
		}
	}
	return imported, skipped
}

// articleBodySelectors are the known content containers of the source blog.
var articleBodySelectors = []string{
	".entry-content", ".elementor-widget-theme-post-content", ".post-content",
}

func extractBody(doc *goquery.Document) string {
	for _, selector := range articleBodySelectors {
		container := doc.Find(selector)
		if container.Length() == 0 {
			continue
		}

		var parts []string
		container.Find("p, h2, h3, h4, ul, ol").Each(func(_ int, node *goquery.Selection) {
			text := strings.TrimSpace(node.Text())
			if text == "" {
				return
			}
			switch goquery.NodeName(node) {
			case "h2":
				parts = append(parts, "## "+text)
			case "h3":
				parts = append(parts, "### "+text)
			case "h4":
				parts = append(parts, "#### "+text)
			default:
				parts = append(parts, text)
			}
		})

		if body := extract.Clean(strings.Join(parts, "\n\n")); body != "" {
			return body
		}
	}
	return ""
}

func extractAuthor(doc *goquery.Document) string {
	author := strings.TrimSpace(doc.Find(".author, .elementor-post-info__item--type-author").First().Text())
	return author
}
