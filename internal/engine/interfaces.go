package engine

import (
	"context"

	"github.com/feedsentry/feedsentry/internal/model"
)

// Store defines the storage operations the engine needs. The full
// service.Storage implementation satisfies this.
type Store interface {
	GetKeywords(ctx context.Context) ([]model.Keyword, error)
	GetActiveTemplate(ctx context.Context) (*model.PromptTemplate, error)
	GetArticlesToClassify(ctx context.Context, limit int) ([]model.Article, error)
	ApplyClassification(ctx context.Context, articleID string, result model.ClassificationResult) error
}

// Completer defines the contract for LLM completion used by the engine.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
