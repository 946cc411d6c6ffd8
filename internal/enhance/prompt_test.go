package enhance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/copydesk/enhance-cli/internal/model"
)

func TestBuildPromptCapsReferenceContent(t *testing.T) {
	long := strings.Repeat("word ", 2000)
	refs := []model.ReferenceDocument{
		{Title: "Long Ref", URL: "https://a.com/blog/1", Content: long},
	}

	prompt := buildPrompt(testArticle, refs, 100)

	start := strings.Index(prompt, "--- Reference Article 1")
	end := strings.Index(prompt, "INSTRUCTIONS:")
	assert.Less(t, end-start, 300, "reference excerpt must be capped")
}

func TestBuildPromptNumbersReferencesInOrder(t *testing.T) {
	prompt := buildPrompt(testArticle, testRefs, 0)

	first := strings.Index(prompt, `--- Reference Article 1: "Ref One" ---`)
	second := strings.Index(prompt, `--- Reference Article 2: "Ref Two" ---`)
	assert.Greater(t, first, -1)
	assert.Greater(t, second, first)
}

func TestBuildPromptIncludesInstructionSections(t *testing.T) {
	prompt := buildPrompt(testArticle, testRefs, 0)

	assert.Contains(t, prompt, "ORIGINAL ARTICLE:")
	assert.Contains(t, prompt, "REFERENCE ARTICLES")
	assert.Contains(t, prompt, "INSTRUCTIONS:")
	assert.Contains(t, prompt, "OUTPUT FORMAT:")
	assert.Contains(t, prompt, "CITATIONS TO INCLUDE:")
	assert.Contains(t, prompt, `Add a "References" section`)
}

func TestCapStringRuneBoundary(t *testing.T) {
	s := "héllo wörld"

	capped := capString(s, 2)
	assert.Equal(t, "h", capped, "must not cut inside the two-byte é")

	assert.Equal(t, s, capString(s, 100))
}
