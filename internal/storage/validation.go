// Package storage provides the data persistence layer for the feedsentry application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feedsentry/feedsentry/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidArticle = errors.New("invalid article")
	ErrInvalidKeyword = errors.New("invalid keyword")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateArticle validates a single article.
func validateArticle(article *model.Article) error {
	if article == nil {
		return fmt.Errorf("%w: article", ErrNilParameter)
	}
	if article.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidArticle)
	}
	return nil
}

// validateKeyword validates a keyword rule before it is stored.
func validateKeyword(keyword *model.Keyword) error {
	if keyword == nil {
		return fmt.Errorf("%w: keyword", ErrNilParameter)
	}
	if keyword.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidKeyword)
	}
	if strings.TrimSpace(keyword.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidKeyword)
	}
	if keyword.Name != strings.ToLower(keyword.Name) {
		return fmt.Errorf("%w: name must be lowercase", ErrInvalidKeyword)
	}
	return nil
}
