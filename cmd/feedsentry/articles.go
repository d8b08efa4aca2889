package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/feedsentry/feedsentry/internal/service"
	"github.com/spf13/cobra"
)

func articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Inspect stored articles",
	}

	cmd.AddCommand(articlesListCmd())

	return cmd
}

func articlesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent articles with their classifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			limit, _ := cmd.Flags().GetInt("limit")
			unclassified, _ := cmd.Flags().GetBool("unclassified")
			source, _ := cmd.Flags().GetString("source")

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			articles, err := store.GetArticles(ctx, service.ArticleFilter{
				Limit:            limit,
				UnclassifiedOnly: unclassified,
				Source:           source,
			})
			if err != nil {
				return fmt.Errorf("failed to list articles: %w", err)
			}

			if len(articles) == 0 {
				fmt.Println("No articles found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tLEVEL\tTYPE\tMATCHES\tSPAM\tTITLE")
			for _, article := range articles {
				level := "-"
				threatType := "-"
				spam := "-"
				if article.Classified() {
					level = string(article.ThreatLevel)
					threatType = article.ThreatType
					spam = fmt.Sprintf("%t", article.IsSpam)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					truncate(article.ID, 12),
					article.Source,
					level,
					threatType,
					strings.Join(article.AlertMatches, ","),
					spam,
					truncate(article.Title, 50))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("limit", 50, "Maximum articles to show")
	cmd.Flags().Bool("unclassified", false, "Show only unclassified articles")
	cmd.Flags().String("source", "", "Filter by source name")

	return cmd
}
