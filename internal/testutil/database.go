// Package testutil provides shared helpers for tests that need a real,
// migrated database.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/feedsentry/feedsentry/internal/storage"
)

// SetupTestDB creates an in-memory SQLite database, runs all migrations,
// seeds the given alert keywords, and registers cleanup on the test.
func SetupTestDB(t *testing.T, keywords ...model.Keyword) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for i := range keywords {
		if err := store.CreateKeyword(ctx, &keywords[i]); err != nil {
			t.Fatalf("failed to seed keyword %q: %v", keywords[i].Name, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// Keyword builds a catalog entry with a derived id.
func Keyword(name, description string) model.Keyword {
	return model.Keyword{
		ID:          model.NewKeywordID(name),
		Name:        name,
		DisplayName: name,
		Description: description,
	}
}

// Article builds an unclassified article ready for insertion. The id is
// derived from title and link the same way the feed ingester does it.
func Article(title, source string) model.Article {
	article := model.Article{
		Title:       title,
		Content:     "Content for " + title,
		Link:        "https://example.com/" + title,
		Source:      source,
		PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	article.ID = article.GenerateID()
	return article
}

// MustSaveArticles inserts articles and fails the test on error.
func MustSaveArticles(t *testing.T, store *storage.SQLiteStorage, articles ...model.Article) {
	t.Helper()

	if _, err := store.SaveArticles(context.Background(), articles); err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}
}
