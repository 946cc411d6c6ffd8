package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copydesk/enhance-cli/internal/fetch"
)

func TestSerpProviderParsesOrganicResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chat widgets blog article", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic_results": [
				{"title": "Widget Guide", "link": "https://a.com/blog/widgets", "snippet": "A guide."},
				{"title": "Widget News", "link": "https://b.com/news/widgets", "snippet": "News."}
			]
		}`))
	}))
	defer srv.Close()

	p := NewSerpProvider("test-key", WithSerpBaseURL(srv.URL))
	got, err := p.Search(context.Background(), "chat widgets blog article")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Widget Guide", got[0].Title)
	assert.Equal(t, "https://a.com/blog/widgets", got[0].URL)
	assert.Equal(t, "A guide.", got[0].Snippet)
}

func TestSerpProviderErrorOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewSerpProvider("bad-key", WithSerpBaseURL(srv.URL))
	_, err := p.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGoogleHTMLProviderParsesResultBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`<html><body>
			<div class="g">
				<a href="https://a.com/blog/one"><h3>First Result</h3></a>
				<div class="VwiC3b">First snippet</div>
			</div>
			<div class="g">
				<a href="/relative"><h3>Skipped Relative</h3></a>
			</div>
			<div class="g">
				<a href="https://b.com/blog/two"><h3>Second Result</h3></a>
			</div>
		</body></html>`))
	}))
	defer srv.Close()

	p := NewGoogleHTMLProvider(fetch.New(), srv.URL)
	got, err := p.Search(context.Background(), "chat widgets blog article")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First Result", got[0].Title)
	assert.Equal(t, "https://a.com/blog/one", got[0].URL)
	assert.Equal(t, "First snippet", got[0].Snippet)
	assert.Equal(t, "https://b.com/blog/two", got[1].URL)
}

func TestDuckDuckGoProviderParsesResultBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="result">
				<h2 class="result__title"><a href="https://a.com/blog/one">DDG First</a></h2>
				<a class="result__snippet">Snippet text</a>
			</div>
			<div class="result">
				<h2 class="result__title"><a href="">No Link</a></h2>
			</div>
		</body></html>`))
	}))
	defer srv.Close()

	p := NewDuckDuckGoProvider(fetch.New(), srv.URL)
	got, err := p.Search(context.Background(), "chat widgets blog article")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DDG First", got[0].Title)
	assert.Equal(t, "https://a.com/blog/one", got[0].URL)
	assert.Equal(t, "Snippet text", got[0].Snippet)
}

func TestGoogleHTMLProviderFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "captcha", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGoogleHTMLProvider(fetch.New(), srv.URL)
	_, err := p.Search(context.Background(), "anything")

	assert.Error(t, err)
}
