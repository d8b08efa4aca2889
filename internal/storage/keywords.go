package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/mattn/go-sqlite3"
)

// GetKeywords returns the full alert keyword catalog, ordered by name.
// The engine takes this as a snapshot at the start of each run.
func (s *SQLiteStorage) GetKeywords(ctx context.Context) ([]model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, display_name, description, owner, created_at
		FROM keywords
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keywords []model.Keyword
	for rows.Next() {
		var kw model.Keyword
		if err := rows.Scan(&kw.ID, &kw.Name, &kw.DisplayName, &kw.Description, &kw.Owner, &kw.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		keywords = append(keywords, kw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rows: %w", err)
	}

	return keywords, nil
}

// GetKeywordByName retrieves a single keyword by its machine name.
func (s *SQLiteStorage) GetKeywordByName(ctx context.Context, name string) (*model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var kw model.Keyword
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, display_name, description, owner, created_at
		FROM keywords
		WHERE name = ?
	`, strings.ToLower(name)).Scan(&kw.ID, &kw.Name, &kw.DisplayName, &kw.Description, &kw.Owner, &kw.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("keyword %s: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword: %w", err)
	}

	return &kw, nil
}

// CreateKeyword stores a new alert rule. Machine names are globally unique.
func (s *SQLiteStorage) CreateKeyword(ctx context.Context, keyword *model.Keyword) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKeyword(keyword); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO keywords (id, name, display_name, description, owner)
		VALUES (?, ?, ?, ?, ?)
	`, keyword.ID, keyword.Name, keyword.DisplayName, keyword.Description, keyword.Owner)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("keyword %s: %w", keyword.Name, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create keyword: %w", err)
	}

	return nil
}

// DeleteKeyword removes an alert rule by machine name. Articles already
// classified keep any dangling references to the deleted id.
func (s *SQLiteStorage) DeleteKeyword(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM keywords WHERE name = ?`, strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("keyword %s: %w", name, common.ErrNotFound)
	}

	return nil
}
