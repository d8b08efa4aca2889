package main

import (
	"fmt"
	"log/slog"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/feed"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch configured feeds and store new articles",
		Long: `Download every configured RSS/Atom source, deduplicate entries by
content hash, and store new articles in the unclassified state.

Sources are configured under feeds.sources in the config file:

  feeds:
    sources:
      - name: example
        url: https://example.com/rss.xml`,
		RunE: runFetch,
	}
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var sources []feed.Source
	if err := viper.UnmarshalKey("feeds.sources", &sources); err != nil {
		return fmt.Errorf("failed to parse feed sources: %w", err)
	}
	if len(sources) == 0 {
		return common.NewUserError("no feed sources configured, add them under feeds.sources", common.ErrMissingConfig)
	}

	slog.Info("Starting feed fetch", "sources", len(sources))

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	fetcher := feed.NewFetcher(store, viper.GetString("feeds.user_agent"))
	stored, skipped, err := fetcher.FetchAll(ctx, sources)
	if err != nil {
		return fmt.Errorf("feed fetch failed: %w", err)
	}

	fmt.Printf("Stored %d new article(s), skipped %d duplicate(s)\n", stored, skipped)
	return nil
}
