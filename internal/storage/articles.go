package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/feedsentry/feedsentry/internal/service"
)

// SaveArticles inserts new articles, skipping any whose id already exists.
// Returns the number of articles actually inserted.
func (s *SQLiteStorage) SaveArticles(ctx context.Context, articles []model.Article) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO articles (id, title, content, link, source, published_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range articles {
		article := &articles[i]
		if err := validateArticle(article); err != nil {
			return inserted, err
		}

		result, execErr := stmt.ExecContext(ctx,
			article.ID, article.Title, article.Content,
			article.Link, article.Source, article.PublishedAt)
		if execErr != nil {
			return inserted, fmt.Errorf("failed to insert article %s: %w", article.ID, execErr)
		}

		rows, raErr := result.RowsAffected()
		if raErr != nil {
			return inserted, fmt.Errorf("failed to count inserted rows: %w", raErr)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit articles: %w", err)
	}

	return inserted, nil
}

// GetArticlesToClassify returns unclassified articles with usable title and
// content, oldest first, capped at limit. An article counts as unclassified
// only while classified_at is NULL; an empty alert_matches on a classified
// article is a legitimate "matched nothing" outcome and is never re-selected.
func (s *SQLiteStorage) GetArticlesToClassify(ctx context.Context, limit int) ([]model.Article, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 200
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE classified_at IS NULL
		  AND TRIM(title) != ''
		  AND TRIM(content) != ''
		ORDER BY created_at, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unclassified articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanArticles(rows)
}

// GetArticleByID retrieves a single article.
func (s *SQLiteStorage) GetArticleByID(ctx context.Context, id string) (*model.Article, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE id = ?
	`, id)

	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// GetArticles returns articles matching the filter, newest first.
func (s *SQLiteStorage) GetArticles(ctx context.Context, filter service.ArticleFilter) ([]model.Article, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + articleColumns + ` FROM articles WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.UnclassifiedOnly {
		query += ` AND classified_at IS NULL`
	}
	if filter.SpamOnly {
		query += ` AND is_spam = 1`
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}

	query += ` ORDER BY COALESCE(published_at, created_at) DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanArticles(rows)
}

// ApplyClassification writes the normalized classification fields onto an
// article and stamps classified_at. The is_read/is_saved flags are owned by
// the user and are deliberately left untouched.
func (s *SQLiteStorage) ApplyClassification(ctx context.Context, articleID string, result model.ClassificationResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(articleID, "articleID"); err != nil {
		return err
	}

	industries, err := json.Marshal(emptyIfNil(result.Industries))
	if err != nil {
		return fmt.Errorf("failed to marshal industries: %w", err)
	}
	matches, err := json.Marshal(emptyIfNil(result.AlertMatches))
	if err != nil {
		return fmt.Errorf("failed to marshal alert matches: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET threat_level = ?,
		    threat_type = ?,
		    industries = ?,
		    is_spam = ?,
		    alert_matches = ?,
		    classified_at = ?,
		    last_updated = ?
		WHERE id = ?
	`, string(result.ThreatLevel), result.ThreatType, string(industries),
		result.IsSpam, string(matches), now, now, articleID)
	if err != nil {
		return fmt.Errorf("failed to update article %s: %w", articleID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("article %s: %w", articleID, common.ErrNotFound)
	}

	return nil
}

// SetArticleRead updates the user-owned read flag.
func (s *SQLiteStorage) SetArticleRead(ctx context.Context, articleID string, read bool) error {
	return s.setArticleFlag(ctx, articleID, "is_read", read)
}

// SetArticleSaved updates the user-owned saved flag.
func (s *SQLiteStorage) SetArticleSaved(ctx context.Context, articleID string, saved bool) error {
	return s.setArticleFlag(ctx, articleID, "is_saved", saved)
}

func (s *SQLiteStorage) setArticleFlag(ctx context.Context, articleID, column string, value bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(articleID, "articleID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE articles SET %s = ?, last_updated = ? WHERE id = ?`, column),
		value, time.Now().UTC(), articleID)
	if err != nil {
		return fmt.Errorf("failed to update article flag: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("article %s: %w", articleID, common.ErrNotFound)
	}
	return nil
}

const articleColumns = `id, title, content, link, source, published_at,
	threat_level, threat_type, industries, is_spam, alert_matches,
	classified_at, is_read, is_saved, created_at, last_updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*model.Article, error) {
	var article model.Article
	var publishedAt, classifiedAt sql.NullTime
	var industries, matches string

	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &article.Link,
		&article.Source, &publishedAt, &article.ThreatLevel,
		&article.ThreatType, &industries, &article.IsSpam, &matches,
		&classifiedAt, &article.IsRead, &article.IsSaved,
		&article.CreatedAt, &article.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		article.PublishedAt = publishedAt.Time
	}
	if classifiedAt.Valid {
		t := classifiedAt.Time
		article.ClassifiedAt = &t
	}

	if err := json.Unmarshal([]byte(industries), &article.Industries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal industries for %s: %w", article.ID, err)
	}
	if err := json.Unmarshal([]byte(matches), &article.AlertMatches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert matches for %s: %w", article.ID, err)
	}

	return &article, nil
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
