package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/copydesk/enhance-cli/internal/model"
)

func cand(url string) model.ReferenceCandidate {
	return model.ReferenceCandidate{Title: "t", URL: url}
}

func TestFilterDropsExcludedDomains(t *testing.T) {
	f := NewFilter(nil, 10)

	got := f.Apply([]model.ReferenceCandidate{
		cand("https://beyondchats.com/blog/self-promo"),
		cand("https://www.youtube.com/watch?v=abc"),
		cand("https://en.wikipedia.org/wiki/Chatbot"),
		cand("https://example.com/blog/chat-widgets"),
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "https://example.com/blog/chat-widgets", got[0].URL)
}

func TestFilterSubdomainMatchesExclusion(t *testing.T) {
	f := NewFilter([]string{"example.com"}, 10)

	got := f.Apply([]model.ReferenceCandidate{
		cand("https://blog.example.com/post/one"),
		cand("https://notexample.com/blog/two"),
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "https://notexample.com/blog/two", got[0].URL)
}

func TestFilterRequiresArticleLikeURL(t *testing.T) {
	f := NewFilter([]string{"nothing.test"}, 10)

	got := f.Apply([]model.ReferenceCandidate{
		cand("https://vendor.com/whitepaper.pdf"),
		cand("https://medium.com/@someone/chat-widgets-101"),
		cand("https://techcrunch.com/2025/01/01/ai-support/"),
	})

	assert.Len(t, got, 2)
}

func TestFilterCapsResults(t *testing.T) {
	f := NewFilter([]string{"nothing.test"}, 2)

	got := f.Apply([]model.ReferenceCandidate{
		cand("https://a.com/blog/1"),
		cand("https://b.com/blog/2"),
		cand("https://c.com/blog/3"),
	})

	assert.Len(t, got, 2)
	assert.Equal(t, "https://a.com/blog/1", got[0].URL)
	assert.Equal(t, "https://b.com/blog/2", got[1].URL)
}

func TestFilterDropsRelativeAndEmptyURLs(t *testing.T) {
	f := NewFilter([]string{"nothing.test"}, 10)

	got := f.Apply([]model.ReferenceCandidate{
		cand(""),
		cand("/blog/relative-path"),
		cand("ftp://files.example.com/blog/x"),
	})

	assert.Empty(t, got)
}
