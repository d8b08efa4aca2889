// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/feedsentry/feedsentry/internal/model"
)

// ArticleFilter defines filtering options for article queries.
type ArticleFilter struct {
	Source           string
	Limit            int
	UnclassifiedOnly bool
	SpamOnly         bool
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Article operations
	SaveArticles(ctx context.Context, articles []model.Article) (int, error)
	GetArticlesToClassify(ctx context.Context, limit int) ([]model.Article, error)
	GetArticleByID(ctx context.Context, id string) (*model.Article, error)
	GetArticles(ctx context.Context, filter ArticleFilter) ([]model.Article, error)
	ApplyClassification(ctx context.Context, articleID string, result model.ClassificationResult) error
	SetArticleRead(ctx context.Context, articleID string, read bool) error
	SetArticleSaved(ctx context.Context, articleID string, saved bool) error

	// Keyword catalog operations
	GetKeywords(ctx context.Context) ([]model.Keyword, error)
	GetKeywordByName(ctx context.Context, name string) (*model.Keyword, error)
	CreateKeyword(ctx context.Context, keyword *model.Keyword) error
	DeleteKeyword(ctx context.Context, name string) error

	// Prompt template operations
	GetActiveTemplate(ctx context.Context) (*model.PromptTemplate, error)
	GetTemplates(ctx context.Context) ([]model.PromptTemplate, error)
	CreateTemplate(ctx context.Context, template *model.PromptTemplate) error
	ActivateTemplate(ctx context.Context, name string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RunStats shows the results of a classification run.
type RunStats struct {
	Batches       int
	FailedBatches int
	Processed     int
	WriteFailures int
	Duration      time.Duration
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
