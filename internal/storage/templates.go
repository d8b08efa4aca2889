package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/model"
)

// GetActiveTemplate returns the single active prompt template, or nil when
// no template is active. The engine falls back to its built-in prompt in
// that case.
func (s *SQLiteStorage) GetActiveTemplate(ctx context.Context) (*model.PromptTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var tmpl model.PromptTemplate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, content, is_active, created_at
		FROM prompt_templates
		WHERE is_active = 1
		LIMIT 1
	`).Scan(&tmpl.ID, &tmpl.Name, &tmpl.Content, &tmpl.IsActive, &tmpl.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active template: %w", err)
	}

	return &tmpl, nil
}

// GetTemplates returns all prompt templates, newest first.
func (s *SQLiteStorage) GetTemplates(ctx context.Context) ([]model.PromptTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content, is_active, created_at
		FROM prompt_templates
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []model.PromptTemplate
	for rows.Next() {
		var tmpl model.PromptTemplate
		if err := rows.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Content, &tmpl.IsActive, &tmpl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, tmpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, nil
}

// CreateTemplate stores a new prompt template in the inactive state.
func (s *SQLiteStorage) CreateTemplate(ctx context.Context, template *model.PromptTemplate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if template == nil {
		return fmt.Errorf("%w: template", ErrNilParameter)
	}
	if err := validateString(template.Name, "name"); err != nil {
		return err
	}
	if err := validateString(template.Content, "content"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO prompt_templates (name, content, is_active)
		VALUES (?, ?, 0)
	`, template.Name, template.Content)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get template id: %w", err)
	}
	template.ID = id

	return nil
}

// ActivateTemplate marks one template active and deactivates all others in
// the same transaction, preserving the at-most-one-active invariant.
func (s *SQLiteStorage) ActivateTemplate(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE prompt_templates SET is_active = 0`); err != nil {
		return fmt.Errorf("failed to deactivate templates: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE prompt_templates SET is_active = 1 WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to activate template: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("template %s: %w", name, common.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template activation: %w", err)
	}

	return nil
}
