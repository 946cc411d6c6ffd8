package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/copydesk/enhance-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS articles (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	content          TEXT NOT NULL,
	author           TEXT NOT NULL DEFAULT '',
	published_date   DATETIME,
	original_url     TEXT,
	scraped_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	is_enhanced      INTEGER NOT NULL DEFAULT 0,
	enhanced_content TEXT NOT NULL DEFAULT '',
	enhanced_at      DATETIME,
	reference_urls   TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_original_url
	ON articles(original_url) WHERE original_url IS NOT NULL AND original_url != '';
CREATE INDEX IF NOT EXISTS idx_articles_is_enhanced ON articles(is_enhanced);
CREATE INDEX IF NOT EXISTS idx_articles_published_date ON articles(published_date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteArticleColumns = `id, title, content, author, published_date, original_url,
	scraped_at, is_enhanced, enhanced_content, enhanced_at, reference_urls`

func (s *SQLiteStore) CreateArticle(ctx context.Context, article model.Article) (*model.Article, error) {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.ScrapedAt.IsZero() {
		article.ScrapedAt = time.Now().UTC()
	}

	refsJSON, err := marshalRefs(article.ReferenceURLs)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal references")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO articles (`+sqliteArticleColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID, article.Title, article.Content, article.Author,
		article.PublishedDate, nullString(article.OriginalURL), article.ScrapedAt,
		article.IsEnhanced, article.EnhancedContent, article.EnhancedAt, refsJSON,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert article")
	}

	return &article, nil
}

func (s *SQLiteStore) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteArticleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

func (s *SQLiteStore) GetArticleByURL(ctx context.Context, originalURL string) (*model.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteArticleColumns+` FROM articles WHERE original_url = ?`, originalURL)
	return scanArticle(row)
}

func (s *SQLiteStore) ListArticles(ctx context.Context, filter ArticleFilter) ([]model.Article, error) {
	query := `SELECT ` + sqliteArticleColumns + ` FROM articles WHERE 1=1`
	var args []any

	if filter.Enhanced != nil {
		query += ` AND is_enhanced = ?`
		args = append(args, *filter.Enhanced)
	}

	query += ` ORDER BY published_date DESC, scraped_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list articles")
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, eris.Wrap(rows.Err(), "sqlite: iterate articles")
}

func (s *SQLiteStore) UpdateArticle(ctx context.Context, id string, update model.ArticleUpdate) (*model.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin update")
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx,
		`SELECT `+sqliteArticleColumns+` FROM articles WHERE id = ?`, id)
	article, err := scanArticle(row)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}

	applyUpdate(article, update)

	refsJSON, err := marshalRefs(article.ReferenceURLs)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal references")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE articles SET title = ?, content = ?, author = ?, published_date = ?,
		 original_url = ?, is_enhanced = ?, enhanced_content = ?, enhanced_at = ?,
		 reference_urls = ? WHERE id = ?`,
		article.Title, article.Content, article.Author, article.PublishedDate,
		nullString(article.OriginalURL), article.IsEnhanced, article.EnhancedContent,
		article.EnhancedAt, refsJSON, id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update article %s", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit update")
	}
	return article, nil
}

func (s *SQLiteStore) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete article %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle reads one article row. A missing row yields (nil, nil).
func scanArticle(row rowScanner) (*model.Article, error) {
	var (
		a           model.Article
		author      sql.NullString
		published   sql.NullTime
		originalURL sql.NullString
		enhanced    sql.NullString
		enhancedAt  sql.NullTime
		refsJSON    sql.NullString
	)

	err := row.Scan(&a.ID, &a.Title, &a.Content, &author, &published, &originalURL,
		&a.ScrapedAt, &a.IsEnhanced, &enhanced, &enhancedAt, &refsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan article")
	}

	a.Author = author.String
	if published.Valid {
		t := published.Time
		a.PublishedDate = &t
	}
	a.OriginalURL = originalURL.String
	a.EnhancedContent = enhanced.String
	if enhancedAt.Valid {
		t := enhancedAt.Time
		a.EnhancedAt = &t
	}
	if refsJSON.Valid && refsJSON.String != "" {
		if err := json.Unmarshal([]byte(refsJSON.String), &a.ReferenceURLs); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal references")
		}
	}

	return &a, nil
}

func marshalRefs(refs []model.Reference) (sql.NullString, error) {
	if refs == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
