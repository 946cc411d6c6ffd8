package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleHTML(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><nav>Menu</nav><article>")
	for _, p := range paragraphs {
		b.WriteString("<p>" + p + "</p>")
	}
	b.WriteString("</article><footer>Footer text</footer></body></html>")
	return b.String()
}

func TestExtractPrefersArticleContainer(t *testing.T) {
	html := articleHTML(
		"This paragraph carries the actual article body and is long enough to keep.",
		"A second paragraph with more substance for the reader to enjoy thoroughly.",
	)

	got := New(0).Extract(html)

	require.NotEmpty(t, got)
	assert.Contains(t, got, "actual article body")
	assert.NotContains(t, got, "Menu")
	assert.NotContains(t, got, "Footer text")
}

func TestExtractFormatsHeadingsAndLists(t *testing.T) {
	html := `<html><body><article>
		<h2>Why It Matters</h2>
		<p>Chat widgets convert browsers into buyers when deployed with care and intent.</p>
		<ul><li>Faster response times</li><li>Lower support costs</li></ul>
		<p>Teams that measure outcomes consistently outperform teams that guess blindly.</p>
	</article></body></html>`

	got := New(0).Extract(html)

	assert.Contains(t, got, "## Why It Matters")
	assert.Contains(t, got, "• Faster response times")
	assert.Contains(t, got, "• Lower support costs")
}

func TestExtractDropsScriptsAndStyles(t *testing.T) {
	html := `<html><body><article>
		<script>window.dataLayer = [];</script>
		<style>.x { color: red }</style>
		<p>Only the visible prose should survive the extraction pass, nothing else at all.</p>
		<p>Second visible paragraph padding the container past the viability threshold nicely.</p>
		<p>Third visible paragraph padding the container past the viability threshold nicely.</p>
	</article></body></html>`

	got := New(0).Extract(html)

	require.NotEmpty(t, got)
	assert.NotContains(t, got, "dataLayer")
	assert.NotContains(t, got, "color: red")
}

func TestExtractFallsBackToSiteWideParagraphs(t *testing.T) {
	// No recognized container: body paragraphs are the only signal.
	html := `<html><body><div>
		<p>Loose paragraph one that still reads like genuine long-form article content here.</p>
		<p>Loose paragraph two that still reads like genuine long-form article content here.</p>
		<p>Loose paragraph three that still reads like genuine long-form article content here.</p>
	</div></body></html>`

	got := New(0).Extract(html)

	assert.Contains(t, got, "Loose paragraph one")
	assert.Contains(t, got, "Loose paragraph three")
}

func TestExtractEmptyForScriptOnlyPage(t *testing.T) {
	html := `<html><body><script>var x = 1;</script></body></html>`
	assert.Empty(t, New(0).Extract(html))
}

func TestExtractHonorsMaxLen(t *testing.T) {
	long := strings.Repeat("Sentence that repeats to build a very long paragraph body. ", 50)
	got := New(300).Extract(articleHTML(long, long))

	assert.LessOrEqual(t, len(got), 300)
	assert.NotEmpty(t, got)
}

func TestExtractMaxLenRespectsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("héllo wörld with accented téxt in every single word répeated. ", 40)
	got := New(257).Extract(articleHTML(long, long))

	assert.True(t, strings.ToValidUTF8(got, "") == got, "truncation must not split a rune")
}

func TestCleanStripsBoilerplate(t *testing.T) {
	in := "Real content stays.\nShare on Facebook\nRead more about widgets\nSubscribe to our newsletter\nMore real content."

	got := Clean(in)

	assert.Contains(t, got, "Real content stays.")
	assert.Contains(t, got, "More real content.")
	assert.NotContains(t, got, "Share on")
	assert.NotContains(t, got, "Subscribe")
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	got := Clean("a    b\n\n\n\n\nc")
	assert.Equal(t, "a b\n\nc", got)
}
