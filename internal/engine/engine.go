// Package engine implements the core batch classification pipeline for
// matching ingested articles against the alert keyword catalog.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/feedsentry/feedsentry/internal/service"
)

// systemPrompt frames every completion request.
const systemPrompt = "You are a threat-intelligence analyst. You review news articles for security relevance and respond only with the exact JSON structure requested."

// Engine orchestrates the classification of unprocessed articles.
type Engine struct {
	store     Store
	client    Completer
	progress  func(completed, total int)
	retryOpts service.RetryOptions
	cfg       Config
	running   atomic.Bool
}

// Config holds configuration options for the classification engine.
type Config struct {
	BatchSize  int
	RunLimit   int
	BatchDelay time.Duration
	DryRun     bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:  5,
		RunLimit:   200,
		BatchDelay: 2 * time.Second,
	}
}

// New creates a new classification engine with the given dependencies.
func New(store Store, client Completer, cfg Config) *Engine {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.RunLimit <= 0 {
		cfg.RunLimit = DefaultConfig().RunLimit
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = DefaultConfig().BatchDelay
	}

	return &Engine{
		store:  store,
		client: client,
		cfg:    cfg,
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// SetProgressFunc registers a callback invoked after each batch completes.
func (e *Engine) SetProgressFunc(fn func(completed, total int)) {
	e.progress = fn
}

// Run executes one full classification pass: load the keyword catalog,
// select unprocessed articles, then classify them batch by batch. A failing
// batch is logged and skipped; only catalog or selector failures abort the
// run. Concurrent invocations are rejected with ErrRunInProgress.
func (e *Engine) Run(ctx context.Context) (service.RunStats, error) {
	var stats service.RunStats

	if !e.running.CompareAndSwap(false, true) {
		return stats, common.ErrRunInProgress
	}
	defer e.running.Store(false)

	start := time.Now()

	catalog, err := e.store.GetKeywords(ctx)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", common.ErrCatalogUnavailable, err)
	}

	// An empty catalog is a legitimate state (every article matches
	// nothing), distinct from the catalog being unreachable.
	slog.Info("Loaded keyword catalog", "count", len(catalog))

	template, err := e.store.GetActiveTemplate(ctx)
	if err != nil {
		slog.Warn("Failed to load active prompt template, using built-in default", "error", err)
		template = nil
	}

	articles, err := e.store.GetArticlesToClassify(ctx, e.cfg.RunLimit)
	if err != nil {
		return stats, fmt.Errorf("failed to select unprocessed articles: %w", err)
	}

	if len(articles) == 0 {
		slog.Info("No articles to classify")
		stats.Duration = time.Since(start)
		return stats, nil
	}

	batches := partition(articles, e.cfg.BatchSize)
	stats.Batches = len(batches)

	slog.Info("Starting classification run",
		"articles", len(articles),
		"batches", len(batches),
		"batch_size", e.cfg.BatchSize,
		"dry_run", e.cfg.DryRun)

	for i, batch := range batches {
		if i > 0 && e.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				stats.Duration = time.Since(start)
				return stats, ctx.Err()
			case <-time.After(e.cfg.BatchDelay):
			}
		}

		updated, writeFailures, batchErr := e.processBatch(ctx, batch, catalog, template)
		if batchErr != nil {
			stats.FailedBatches++
			slog.Error("Batch failed, continuing with next batch",
				"batch", i+1,
				"batches", len(batches),
				"articles", len(batch),
				"error", batchErr)

			// Cooperative cancellation between batches
			if ctx.Err() != nil {
				stats.Duration = time.Since(start)
				return stats, ctx.Err()
			}
			continue
		}

		stats.Processed += updated
		stats.WriteFailures += writeFailures

		if e.progress != nil {
			e.progress(i+1, len(batches))
		}
	}

	stats.Duration = time.Since(start)
	slog.Info("Classification run complete",
		"batches", stats.Batches,
		"failed_batches", stats.FailedBatches,
		"processed", stats.Processed,
		"write_failures", stats.WriteFailures,
		"duration", stats.Duration)

	return stats, nil
}

// processBatch runs one batch through prompt building, LLM invocation,
// parsing, and persistence. A per-article write failure is counted but does
// not abort the remaining writes.
func (e *Engine) processBatch(ctx context.Context, batch []model.Article, catalog []model.Keyword, template *model.PromptTemplate) (updated, writeFailures int, err error) {
	prompt := BuildPrompt(batch, catalog, template)

	var raw string
	err = common.WithRetry(ctx, func() error {
		response, completeErr := e.client.Complete(ctx, systemPrompt, prompt)
		if completeErr != nil {
			return &common.RetryableError{Err: completeErr, Retryable: true}
		}
		raw = response
		return nil
	}, e.retryOpts)
	if err != nil {
		return 0, 0, fmt.Errorf("llm invocation failed: %w", err)
	}

	results, err := ParseResponse(raw, batch, catalog)
	if err != nil {
		return 0, 0, err
	}

	if len(results) < len(batch) {
		slog.Warn("Model omitted articles from response, leaving them unclassified",
			"expected", len(batch),
			"received", len(results))
	}

	if e.cfg.DryRun {
		for _, result := range results {
			slog.Info("Dry run classification",
				"article_id", result.ArticleID,
				"threat_level", result.ThreatLevel,
				"threat_type", result.ThreatType,
				"alert_matches", result.AlertMatches,
				"is_spam", result.IsSpam)
		}
		return len(results), 0, nil
	}

	for _, result := range results {
		if applyErr := e.store.ApplyClassification(ctx, result.ArticleID, result); applyErr != nil {
			writeFailures++
			slog.Error("Failed to persist classification",
				"article_id", result.ArticleID,
				"error", applyErr)
			continue
		}
		updated++
	}

	return updated, writeFailures, nil
}

// partition slices articles into fixed-size batches.
func partition(articles []model.Article, size int) [][]model.Article {
	if size <= 0 {
		return [][]model.Article{articles}
	}

	batches := make([][]model.Article, 0, (len(articles)+size-1)/size)
	for start := 0; start < len(articles); start += size {
		end := start + size
		if end > len(articles) {
			end = len(articles)
		}
		batches = append(batches, articles[start:end])
	}
	return batches
}
