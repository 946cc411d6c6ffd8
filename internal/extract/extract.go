// Package extract pulls readable article text out of arbitrary HTML using an
// ordered list of content-selector heuristics.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minFragmentLen drops stray link text and button labels inside content
	// containers.
	minFragmentLen = 10

	// minParagraphLen applies to the site-wide paragraph fallback, which has
	// no container to vouch for relevance.
	minParagraphLen = 20

	// minViableLen is the acceptance threshold for a selector's output.
	// Below it the next selector is tried.
	minViableLen = 200

	// DefaultMaxLen bounds extracted text so downstream prompts stay small.
	DefaultMaxLen = 3000
)

// stripSelectors are removed from the document before any extraction.
var stripSelectors = []string{
	"script", "style", "nav", "header", "footer", "aside",
	".sidebar", ".comments", ".advertisement", ".ad",
}

// contentSelectors is the priority list of likely main-content containers.
// The first selector whose collected text clears minViableLen wins.
var contentSelectors = []string{
	"article",
	"[role=\"main\"]",
	".post-content",
	".article-content",
	".entry-content",
	".blog-content",
	".main-content",
	"main",
	".content",
}

// headingPrefixes maps heading tags to markdown prefixes.
var headingPrefixes = map[string]string{
	"h1": "# ",
	"h2": "## ",
	"h3": "### ",
	"h4": "#### ",
	"h5": "##### ",
	"h6": "###### ",
}

// Extractor converts raw HTML into cleaned plain/markdown text.
type Extractor struct {
	maxLen int
}

// New creates an Extractor with the given output cap. Non-positive caps fall
// back to DefaultMaxLen.
func New(maxLen int) *Extractor {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Extractor{maxLen: maxLen}
}

// Extract returns the readable article body from html. It never fails:
// malformed or content-free input degrades to an empty or partial string.
func (e *Extractor) Extract(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find(strings.Join(stripSelectors, ", ")).Remove()

	content := ""
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		content = collectFragments(sel)
		if len(content) > minViableLen {
			break
		}
	}

	// Last resort: every paragraph on the page.
	if len(content) < minViableLen {
		var parts []string
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := strings.TrimSpace(p.Text())
			if len(text) > minParagraphLen {
				parts = append(parts, text)
			}
		})
		content = strings.Join(parts, "\n\n")
	}

	return truncate(Clean(content), e.maxLen)
}

// collectFragments walks paragraph, heading, and list-item nodes inside the
// selection and renders them to markdown-ish text.
func collectFragments(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p, h1, h2, h3, h4, h5, h6, li").Each(func(_ int, node *goquery.Selection) {
		text := strings.TrimSpace(node.Text())
		if len(text) < minFragmentLen {
			return
		}

		tag := goquery.NodeName(node)
		if prefix, ok := headingPrefixes[tag]; ok {
			parts = append(parts, prefix+text)
			return
		}
		if tag == "li" {
			parts = append(parts, "• "+text)
			return
		}
		parts = append(parts, text)
	})
	return strings.Join(parts, "\n\n")
}

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)

	// boilerplate phrases that survive container stripping on many blogs.
	boilerplate = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Share on (Facebook|Twitter|LinkedIn|Email)`),
		regexp.MustCompile(`(?i)Read more\.\.\.`),
		regexp.MustCompile(`(?i)Subscribe to our newsletter`),
		regexp.MustCompile(`(?i)Cookie policy`),
	}
)

// Clean collapses whitespace and strips known boilerplate phrases.
func Clean(content string) string {
	for _, re := range boilerplate {
		content = re.ReplaceAllString(content, "")
	}
	content = spaceRuns.ReplaceAllString(content, " ")
	content = newlineRuns.ReplaceAllString(content, "\n\n")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary.
	for max > 0 && s[max]&0xC0 == 0x80 {
		max--
	}
	return s[:max]
}
