package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/spf13/cobra"
)

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage the alert keyword catalog",
		Long: `Manage the alert rules that articles are classified against.

Each keyword has a lowercase machine name, a display name, and a free-text
description. The description is the matching instruction handed to the LLM,
so write it the way you would brief an analyst.`,
	}

	cmd.AddCommand(keywordsListCmd())
	cmd.AddCommand(keywordsAddCmd())
	cmd.AddCommand(keywordsRemoveCmd())

	return cmd
}

func keywordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all alert keywords",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			keywords, err := store.GetKeywords(ctx)
			if err != nil {
				return fmt.Errorf("failed to list keywords: %w", err)
			}

			if len(keywords) == 0 {
				fmt.Println("No keywords defined. Add one with: feedsentry keywords add")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDISPLAY NAME\tDESCRIPTION")
			for _, kw := range keywords {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kw.ID, kw.Name, kw.DisplayName, truncate(kw.Description, 60))
			}
			return w.Flush()
		},
	}
}

func keywordsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an alert keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.ToLower(strings.TrimSpace(args[0]))

			displayName, _ := cmd.Flags().GetString("display-name")
			description, _ := cmd.Flags().GetString("description")
			owner, _ := cmd.Flags().GetString("owner")

			if displayName == "" {
				displayName = name
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			keyword := &model.Keyword{
				ID:          model.NewKeywordID(name),
				Name:        name,
				DisplayName: displayName,
				Description: description,
				Owner:       owner,
			}
			if err := store.CreateKeyword(ctx, keyword); err != nil {
				return fmt.Errorf("failed to add keyword: %w", err)
			}

			fmt.Printf("Added keyword %s (%s)\n", keyword.Name, keyword.ID)
			return nil
		},
	}

	cmd.Flags().String("display-name", "", "Human-readable name shown in listings")
	cmd.Flags().String("description", "", "Matching instruction given to the LLM")
	cmd.Flags().String("owner", "", "Owner of this alert rule")

	return cmd
}

func keywordsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove an alert keyword",
		Long: `Remove an alert rule from the catalog.

Articles already classified keep any references to the removed keyword id;
they are never rewritten retroactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteKeyword(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to remove keyword: %w", err)
			}

			fmt.Printf("Removed keyword %s\n", args[0])
			return nil
		},
	}
}
