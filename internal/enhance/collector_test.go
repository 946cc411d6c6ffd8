package enhance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copydesk/enhance-cli/internal/extract"
	"github.com/copydesk/enhance-cli/internal/fetch"
	"github.com/copydesk/enhance-cli/internal/model"
	"github.com/copydesk/enhance-cli/internal/search"
)

type stubProvider struct {
	results []model.ReferenceCandidate
}

func (s *stubProvider) Search(context.Context, string) ([]model.ReferenceCandidate, error) {
	return s.results, nil
}

func (s *stubProvider) Name() string { return "stub" }

func referenceServer(t *testing.T, paragraphs int) *httptest.Server {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><body><article>")
	for i := 0; i < paragraphs; i++ {
		b.WriteString("<p>A reference paragraph with enough words to count as real article content here.</p>")
	}
	b.WriteString("</article></body></html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(b.String()))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestCollector(opts ...CollectorOption) *Collector {
	chain := search.NewChain(search.NewFilter([]string{"nothing.test"}, 10))
	return NewCollector(chain, fetch.New(), extract.New(0), fetch.NewGate(0), opts...)
}

func TestCollectFetchesAndExtractsCandidates(t *testing.T) {
	a := referenceServer(t, 6)
	b := referenceServer(t, 6)

	docs := newTestCollector().Collect(context.Background(), []model.ReferenceCandidate{
		{Title: "Ref A", URL: a.URL},
		{Title: "Ref B", URL: b.URL},
	})

	require.Len(t, docs, 2)
	assert.Equal(t, "Ref A", docs[0].Title)
	assert.Equal(t, a.URL, docs[0].URL)
	assert.Contains(t, docs[0].Content, "reference paragraph")
}

func TestCollectSkipsFailedFetches(t *testing.T) {
	good := referenceServer(t, 6)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	t.Cleanup(bad.Close)

	docs := newTestCollector().Collect(context.Background(), []model.ReferenceCandidate{
		{Title: "Bad", URL: bad.URL},
		{Title: "Good", URL: good.URL},
	})

	require.Len(t, docs, 1)
	assert.Equal(t, "Good", docs[0].Title)
}

func TestCollectRejectsThinContent(t *testing.T) {
	thin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><article><p>Too short to keep at all.</p></article></body></html>"))
	}))
	t.Cleanup(thin.Close)

	docs := newTestCollector().Collect(context.Background(), []model.ReferenceCandidate{
		{Title: "Thin", URL: thin.URL},
	})

	assert.Empty(t, docs)
}

func TestCollectCapsReferenceContent(t *testing.T) {
	srv := referenceServer(t, 40)

	docs := newTestCollector(WithReferenceCap(500)).Collect(context.Background(), []model.ReferenceCandidate{
		{Title: "Big", URL: srv.URL},
	})

	require.Len(t, docs, 1)
	assert.LessOrEqual(t, len(docs[0].Content), 500)
}

func TestCollectStopsOnCancelledContext(t *testing.T) {
	srv := referenceServer(t, 6)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := newTestCollector().Collect(ctx, []model.ReferenceCandidate{
		{Title: "Never", URL: srv.URL},
	})

	assert.Empty(t, docs)
}

func TestSearchDelegatesToChain(t *testing.T) {
	chain := search.NewChain(search.NewFilter([]string{"nothing.test"}, 10), &stubProvider{
		results: []model.ReferenceCandidate{{Title: "Hit", URL: "https://a.com/blog/1"}},
	})
	c := NewCollector(chain, fetch.New(), extract.New(0), fetch.NewGate(0))

	got := c.Search(context.Background(), "chat widgets")

	require.Len(t, got, 1)
	assert.Equal(t, "Hit", got[0].Title)
}
