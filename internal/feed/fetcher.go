// Package feed ingests RSS/Atom sources and stores new articles in the
// unclassified state for the classification engine to pick up.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/mmcdole/gofeed"
)

// Source is a single configured feed.
type Source struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// ArticleStore defines the storage operations the fetcher needs.
type ArticleStore interface {
	SaveArticles(ctx context.Context, articles []model.Article) (int, error)
}

// Fetcher downloads and parses configured feeds.
type Fetcher struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	store      ArticleStore
	userAgent  string
}

// NewFetcher creates a feed fetcher backed by the given article store.
func NewFetcher(store ArticleStore, userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = "feedsentry/1.0"
	}

	return &Fetcher{
		store:     store,
		userAgent: userAgent,
		parser:    gofeed.NewParser(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAll processes every source sequentially. A failing source is logged
// and skipped; ingestion of the remaining sources continues. Returns the
// number of newly stored articles and the number of duplicates skipped.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) (stored, skipped int, err error) {
	for _, source := range sources {
		select {
		case <-ctx.Done():
			return stored, skipped, ctx.Err()
		default:
		}

		articles, fetchErr := f.fetchSource(ctx, source)
		if fetchErr != nil {
			slog.Error("Failed to fetch feed source, skipping",
				"source", source.Name,
				"url", source.URL,
				"error", fetchErr)
			continue
		}

		inserted, saveErr := f.store.SaveArticles(ctx, articles)
		if saveErr != nil {
			slog.Error("Failed to store articles, skipping source",
				"source", source.Name,
				"error", saveErr)
			continue
		}

		stored += inserted
		skipped += len(articles) - inserted

		slog.Info("Fetched feed source",
			"source", source.Name,
			"items", len(articles),
			"new", inserted)
	}

	return stored, skipped, nil
}

// fetchSource downloads one feed and normalizes its items into articles.
func (f *Fetcher) fetchSource(ctx context.Context, source Source) ([]model.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]model.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, normalizeItem(item, source.Name))
	}

	return articles, nil
}

// normalizeItem converts a feed item into an unclassified article. Content
// falls back to the item description; articles that end up with an empty
// title or content are stored but never selected for classification.
func normalizeItem(item *gofeed.Item, sourceName string) model.Article {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	article := model.Article{
		Title:   item.Title,
		Content: content,
		Link:    item.Link,
		Source:  sourceName,
	}

	if item.PublishedParsed != nil {
		article.PublishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		article.PublishedAt = *item.UpdatedParsed
	}

	article.ID = article.GenerateID()
	return article
}
