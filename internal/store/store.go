// Package store persists articles in SQLite (default) or Postgres.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/copydesk/enhance-cli/internal/model"
)

// ErrNotFound is returned when an article id does not exist.
var ErrNotFound = eris.New("article not found")

// ArticleFilter specifies criteria for listing articles.
type ArticleFilter struct {
	// Enhanced filters on the enhancement flag when non-nil.
	Enhanced *bool
	Limit    int
	Offset   int
}

// Store defines the persistence interface for articles. A single-article
// update is the atomic write-back point for enhancement results.
type Store interface {
	CreateArticle(ctx context.Context, article model.Article) (*model.Article, error)
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	GetArticleByURL(ctx context.Context, originalURL string) (*model.Article, error)
	ListArticles(ctx context.Context, filter ArticleFilter) ([]model.Article, error)
	UpdateArticle(ctx context.Context, id string, update model.ArticleUpdate) (*model.Article, error)
	DeleteArticle(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// applyUpdate merges a partial update into an article. Nil pointers leave
// fields untouched; ReferenceURLs replaces wholesale when non-nil.
func applyUpdate(a *model.Article, u model.ArticleUpdate) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.Author != nil {
		a.Author = *u.Author
	}
	if u.PublishedDate != nil {
		a.PublishedDate = u.PublishedDate
	}
	if u.OriginalURL != nil {
		a.OriginalURL = *u.OriginalURL
	}
	if u.IsEnhanced != nil {
		a.IsEnhanced = *u.IsEnhanced
	}
	if u.EnhancedContent != nil {
		a.EnhancedContent = *u.EnhancedContent
	}
	if u.EnhancedAt != nil {
		a.EnhancedAt = u.EnhancedAt
	}
	if u.ReferenceURLs != nil {
		a.ReferenceURLs = u.ReferenceURLs
	}
}
