package search

import (
	"net/url"
	"strings"

	"github.com/copydesk/enhance-cli/internal/model"
)

// DefaultExcludeDomains are dropped regardless of provider: the source site
// itself, social/video platforms, and generic UGC hosts.
var DefaultExcludeDomains = []string{
	"beyondchats.com", "youtube.com", "twitter.com", "facebook.com",
	"instagram.com", "linkedin.com", "google.com", "wikipedia.org",
}

// articleIndicators mark URLs that are very likely long-form articles.
var articleIndicators = []string{
	"/blog", "/article", "/post", "/news", "blog.", "medium.com",
	"substack.com", "forbes.com", "techcrunch.com", "hubspot.com",
}

// Filter drops excluded hosts, prefers article-like URLs, and caps the
// result count. Provider order is preserved.
type Filter struct {
	excludeDomains []string
	maxResults     int
}

// NewFilter creates a Filter. Empty excludeDomains falls back to the default
// list; a non-positive cap defaults to 2.
func NewFilter(excludeDomains []string, maxResults int) *Filter {
	if len(excludeDomains) == 0 {
		excludeDomains = DefaultExcludeDomains
	}
	if maxResults <= 0 {
		maxResults = 2
	}
	return &Filter{excludeDomains: excludeDomains, maxResults: maxResults}
}

// Apply filters raw provider candidates down to at most maxResults usable
// ones.
func (f *Filter) Apply(candidates []model.ReferenceCandidate) []model.ReferenceCandidate {
	var out []model.ReferenceCandidate
	for _, c := range candidates {
		if c.URL == "" || !strings.HasPrefix(c.URL, "http") {
			continue
		}
		if f.isExcluded(c.URL) {
			continue
		}
		if !looksLikeArticle(c.URL) {
			continue
		}
		out = append(out, c)
		if len(out) == f.maxResults {
			break
		}
	}
	return out
}

// isExcluded reports whether the candidate's host matches the exclusion
// list. Unparseable URLs are excluded outright.
func (f *Filter) isExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range f.excludeDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// looksLikeArticle accepts URLs with article-like path patterns, and anything
// that is not an obvious non-article download.
func looksLikeArticle(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ind := range articleIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return !strings.HasSuffix(lower, ".pdf")
}
