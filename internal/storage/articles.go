package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/redacaolab/redator/internal/apperr"
)

// SavedArticle is one generated article persisted for later editing.
type SavedArticle struct {
	ID              int64     `json:"id"`
	ArticleID       string    `json:"articleId"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Content         string    `json:"content"`
	Tags            string    `json:"tags"`
	Keyword         string    `json:"keyword"`
	LongTailKeyword string    `json:"longTailKeyword"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ArticleDB persists generated articles in SQLite.
type ArticleDB struct {
	db *sql.DB
}

func NewArticleDB(dbPath string) (*ArticleDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		article_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		subtitle TEXT,
		content TEXT NOT NULL,
		tags TEXT,
		keyword TEXT,
		long_tail_keyword TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);
	CREATE INDEX IF NOT EXISTS idx_articles_keyword ON articles(keyword);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &ArticleDB{db: db}, nil
}

// Save stores the article and returns its generated identifier.
func (adb *ArticleDB) Save(article *SavedArticle) (string, error) {
	if article.ArticleID == "" {
		article.ArticleID = uuid.New().String()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO articles (article_id, title, subtitle, content, tags, keyword, long_tail_keyword, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := adb.db.Exec(query, article.ArticleID, article.Title, article.Subtitle,
		article.Content, article.Tags, article.Keyword, article.LongTailKeyword, article.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to save article: %v", err)
	}
	return article.ArticleID, nil
}

// Get returns one article by its public identifier.
func (adb *ArticleDB) Get(articleID string) (*SavedArticle, error) {
	query := `
	SELECT id, article_id, title, subtitle, content, tags, keyword, long_tail_keyword, created_at
	FROM articles WHERE article_id = ?
	`
	var a SavedArticle
	err := adb.db.QueryRow(query, articleID).Scan(&a.ID, &a.ArticleID, &a.Title, &a.Subtitle,
		&a.Content, &a.Tags, &a.Keyword, &a.LongTailKeyword, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "Matéria não encontrada")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %v", err)
	}
	return &a, nil
}

// List returns the most recent articles, newest first.
func (adb *ArticleDB) List(limit int) ([]SavedArticle, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
	SELECT id, article_id, title, subtitle, content, tags, keyword, long_tail_keyword, created_at
	FROM articles ORDER BY created_at DESC LIMIT ?
	`
	rows, err := adb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %v", err)
	}
	defer rows.Close()

	var articles []SavedArticle
	for rows.Next() {
		var a SavedArticle
		if err := rows.Scan(&a.ID, &a.ArticleID, &a.Title, &a.Subtitle,
			&a.Content, &a.Tags, &a.Keyword, &a.LongTailKeyword, &a.CreatedAt); err != nil {
			continue
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Update replaces the editable fields of a stored article.
func (adb *ArticleDB) Update(article *SavedArticle) error {
	query := `
	UPDATE articles SET title = ?, subtitle = ?, content = ?, tags = ?, long_tail_keyword = ?
	WHERE article_id = ?
	`
	res, err := adb.db.Exec(query, article.Title, article.Subtitle, article.Content,
		article.Tags, article.LongTailKeyword, article.ArticleID)
	if err != nil {
		return fmt.Errorf("failed to update article: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "Matéria não encontrada")
	}
	return nil
}

// Delete removes one article by its public identifier.
func (adb *ArticleDB) Delete(articleID string) error {
	res, err := adb.db.Exec(`DELETE FROM articles WHERE article_id = ?`, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete article: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "Matéria não encontrada")
	}
	return nil
}

// Close closes the database connection.
func (adb *ArticleDB) Close() error {
	return adb.db.Close()
}
