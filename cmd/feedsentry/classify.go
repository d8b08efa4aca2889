package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/engine"
	"github.com/feedsentry/feedsentry/internal/llm"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify unprocessed articles against the alert keyword catalog",
		Long: `Run one classification pass over unprocessed articles.

Articles are sent to the configured LLM provider in small batches together
with the current alert keyword catalog. Each batch is isolated: a provider
error or unparseable response skips that batch and the run continues.
Unclassified articles stay eligible for the next run.

Examples:
  feedsentry classify                 # Classify up to the configured run cap
  feedsentry classify --limit 50      # Classify at most 50 articles
  feedsentry classify --dry-run       # Parse and report without persisting`,
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().Int("batch-size", 5, "Articles per LLM request")
	cmd.Flags().Int("limit", 200, "Maximum articles to classify in one run")
	cmd.Flags().Duration("batch-delay", 2*time.Second, "Delay between batches")
	cmd.Flags().Bool("dry-run", false, "Preview without saving changes")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("classify.batch_size", cmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("classify.limit", cmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("classify.batch_delay", cmd.Flags().Lookup("batch-delay"))
	_ = viper.BindPFlag("classify.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	slog.Info("Starting article classification")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	client, err := newLLMClient()
	if err != nil {
		return err
	}

	eng := engine.New(store, client, engine.Config{
		BatchSize:  viper.GetInt("classify.batch_size"),
		RunLimit:   viper.GetInt("classify.limit"),
		BatchDelay: viper.GetDuration("classify.batch_delay"),
		DryRun:     viper.GetBool("classify.dry_run"),
	})

	var bar *progressbar.ProgressBar
	eng.SetProgressFunc(func(completed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Classifying batches"),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(completed)
	})

	stats, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("classification run failed: %w", err)
	}

	fmt.Printf("\nClassified %d article(s) across %d batch(es) in %s\n",
		stats.Processed, stats.Batches, stats.Duration.Round(time.Millisecond))
	if stats.FailedBatches > 0 {
		fmt.Printf("%d batch(es) failed and will be retried on the next run\n", stats.FailedBatches)
	}
	if stats.WriteFailures > 0 {
		fmt.Printf("%d article write(s) failed\n", stats.WriteFailures)
	}

	return nil
}

// newLLMClient builds the configured provider client with rate limiting.
func newLLMClient() (llm.Client, error) {
	cfg := llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}
	if cfg.Provider == "" {
		cfg.Provider = "anthropic"
	}
	if cfg.APIKey == "" {
		return nil, common.NewUserError("no API key configured, set llm.api_key or FEEDSENTRY_LLM_API_KEY", common.ErrMissingConfig)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return llm.NewThrottledClient(client, cfg.RateLimit), nil
}
