package model

import "time"

// Article is a stored blog article, original or enhanced.
type Article struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Content         string      `json:"content"`
	Author          string      `json:"author,omitempty"`
	PublishedDate   *time.Time  `json:"publishedDate,omitempty"`
	OriginalURL     string      `json:"originalUrl,omitempty"`
	ScrapedAt       time.Time   `json:"scrapedAt"`
	IsEnhanced      bool        `json:"isEnhanced"`
	EnhancedContent string      `json:"enhancedContent,omitempty"`
	EnhancedAt      *time.Time  `json:"enhancedAt,omitempty"`
	ReferenceURLs   []Reference `json:"referenceUrls,omitempty"`
}

// Reference is a citation to an external article used during enhancement.
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ReferenceCandidate is a search hit that may become a reference. Candidates
// are ephemeral; they are never persisted.
type ReferenceCandidate struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// ReferenceDocument is a candidate whose readable content was successfully
// extracted. Consumed within a single pipeline run; only (Title, URL) survive
// into the article's ReferenceURLs.
type ReferenceDocument struct {
	Title   string
	URL     string
	Content string
}

// EnhancementResult is the payload a successful pipeline run produces. The
// caller merges it into the stored article; the pipeline itself persists
// nothing.
type EnhancementResult struct {
	EnhancedContent string      `json:"enhancedContent"`
	References      []Reference `json:"referenceUrls"`
	EnhancedAt      time.Time   `json:"enhancedAt"`
	Backend         string      `json:"backend,omitempty"`
}

// ArticleUpdate carries partial field updates for an article. Nil pointers
// leave the stored value untouched.
type ArticleUpdate struct {
	Title           *string
	Content         *string
	Author          *string
	PublishedDate   *time.Time
	OriginalURL     *string
	IsEnhanced      *bool
	EnhancedContent *string
	EnhancedAt      *time.Time
	ReferenceURLs   []Reference
}

// EnhancementUpdate maps a pipeline result onto a store update.
func EnhancementUpdate(res *EnhancementResult) ArticleUpdate {
	enhanced := true
	return ArticleUpdate{
		IsEnhanced:      &enhanced,
		EnhancedContent: &res.EnhancedContent,
		EnhancedAt:      &res.EnhancedAt,
		ReferenceURLs:   res.References,
	}
}
