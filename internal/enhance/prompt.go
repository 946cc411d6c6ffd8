package enhance

import (
	"fmt"
	"strings"

	"github.com/copydesk/enhance-cli/internal/model"
)

// defaultPromptRefLen caps each reference's content inside the prompt so a
// couple of long references cannot crowd out the original article.
const defaultPromptRefLen = 2500

// buildPrompt assembles the single enhancement prompt: original article,
// reference excerpts, rewrite instructions, and the citation list.
func buildPrompt(article model.Article, refs []model.ReferenceDocument, refLen int) string {
	if refLen <= 0 {
		refLen = defaultPromptRefLen
	}

	var refContents strings.Builder
	for i, ref := range refs {
		if i > 0 {
			refContents.WriteString("\n\n")
		}
		fmt.Fprintf(&refContents, "--- Reference Article %d: %q ---\n%s",
			i+1, ref.Title, capString(ref.Content, refLen))
	}

	var citations strings.Builder
	for i, ref := range refs {
		if i > 0 {
			citations.WriteString("\n")
		}
		fmt.Fprintf(&citations, "[%d] %q - %s", i+1, ref.Title, ref.URL)
	}

	return fmt.Sprintf(`You are an expert content editor. Your task is to enhance and improve an article while maintaining its core message.

ORIGINAL ARTICLE:
Title: %s
Content:
%s

REFERENCE ARTICLES (top-ranking articles on similar topics):
%s

INSTRUCTIONS:
1. Analyze the structure, formatting, and style of the reference articles
2. Rewrite the original article to match the quality and depth of the top-ranking content
3. Improve SEO by adding relevant subheadings, bullet points, and clear sections
4. Keep the original message and key points intact
5. Make the content more engaging and comprehensive
6. Add a "References" section at the end citing the reference articles

OUTPUT FORMAT:
- Write in markdown format
- Use proper headings (##, ###)
- Include bullet points where appropriate
- Add the citations section at the end

CITATIONS TO INCLUDE:
%s

Write the enhanced article now:`,
		article.Title, article.Content, refContents.String(), citations.String())
}

func capString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && s[max]&0xC0 == 0x80 {
		max--
	}
	return s[:max]
}
