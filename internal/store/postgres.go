package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/copydesk/enhance-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS articles (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	content          TEXT NOT NULL,
	author           TEXT NOT NULL DEFAULT '',
	published_date   TIMESTAMPTZ,
	original_url     TEXT,
	scraped_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_enhanced      BOOLEAN NOT NULL DEFAULT FALSE,
	enhanced_content TEXT NOT NULL DEFAULT '',
	enhanced_at      TIMESTAMPTZ,
	reference_urls   JSONB
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_original_url
	ON articles(original_url) WHERE original_url IS NOT NULL AND original_url != '';
CREATE INDEX IF NOT EXISTS idx_articles_is_enhanced ON articles(is_enhanced);
CREATE INDEX IF NOT EXISTS idx_articles_published_date ON articles(published_date);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const pgArticleColumns = `id, title, content, author, published_date, original_url,
	scraped_at, is_enhanced, enhanced_content, enhanced_at, reference_urls`

func (s *PostgresStore) CreateArticle(ctx context.Context, article model.Article) (*model.Article, error) {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.ScrapedAt.IsZero() {
		article.ScrapedAt = time.Now().UTC()
	}

	refsJSON, err := refsToJSON(article.ReferenceURLs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal references")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO articles (id, title, content, author, published_date, original_url,
		 scraped_at, is_enhanced, enhanced_content, enhanced_at, reference_urls)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		article.ID, article.Title, article.Content, article.Author,
		article.PublishedDate, emptyToNil(article.OriginalURL), article.ScrapedAt,
		article.IsEnhanced, article.EnhancedContent, article.EnhancedAt, refsJSON,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert article")
	}

	return &article, nil
}

func (s *PostgresStore) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgArticleColumns+` FROM articles WHERE id = $1`, id)
	return scanPgArticle(row)
}

func (s *PostgresStore) GetArticleByURL(ctx context.Context, originalURL string) (*model.Article, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgArticleColumns+` FROM articles WHERE original_url = $1`, originalURL)
	return scanPgArticle(row)
}

func (s *PostgresStore) ListArticles(ctx context.Context, filter ArticleFilter) ([]model.Article, error) {
	query := `SELECT ` + pgArticleColumns + ` FROM articles WHERE 1=1`
	var args []any

	if filter.Enhanced != nil {
		args = append(args, *filter.Enhanced)
		query += ` AND is_enhanced = $1`
	}

	query += ` ORDER BY published_date DESC NULLS LAST, scraped_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list articles")
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		a, err := scanPgArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, eris.Wrap(rows.Err(), "postgres: iterate articles")
}

func (s *PostgresStore) UpdateArticle(ctx context.Context, id string, update model.ArticleUpdate) (*model.Article, error) {
	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}

	applyUpdate(article, update)

	refsJSON, err := refsToJSON(article.ReferenceURLs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal references")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE articles SET title = $1, content = $2, author = $3, published_date = $4,
		 original_url = $5, is_enhanced = $6, enhanced_content = $7, enhanced_at = $8,
		 reference_urls = $9 WHERE id = $10`,
		article.Title, article.Content, article.Author, article.PublishedDate,
		emptyToNil(article.OriginalURL), article.IsEnhanced, article.EnhancedContent,
		article.EnhancedAt, refsJSON, id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: update article %s", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return article, nil
}

func (s *PostgresStore) DeleteArticle(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete article %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPgArticle(row pgx.Row) (*model.Article, error) {
	var (
		a           model.Article
		author      *string
		published   *time.Time
		originalURL *string
		enhanced    *string
		enhancedAt  *time.Time
		refsJSON    []byte
	)

	err := row.Scan(&a.ID, &a.Title, &a.Content, &author, &published, &originalURL,
		&a.ScrapedAt, &a.IsEnhanced, &enhanced, &enhancedAt, &refsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan article")
	}

	if author != nil {
		a.Author = *author
	}
	a.PublishedDate = published
	if originalURL != nil {
		a.OriginalURL = *originalURL
	}
	if enhanced != nil {
		a.EnhancedContent = *enhanced
	}
	a.EnhancedAt = enhancedAt
	if len(refsJSON) > 0 {
		if err := json.Unmarshal(refsJSON, &a.ReferenceURLs); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal references")
		}
	}

	return &a, nil
}

func refsToJSON(refs []model.Reference) ([]byte, error) {
	if refs == nil {
		return nil, nil
	}
	return json.Marshal(refs)
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
