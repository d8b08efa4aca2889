package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/spf13/cobra"
)

func promptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage prompt templates",
		Long: `Manage the prompt templates used to build classification requests.

Template content may embed {alerts} and {articles} placeholders. Missing
placeholders are appended as trailing sections rather than dropped. At most
one template is active; with none active, the built-in default is used.`,
	}

	cmd.AddCommand(promptsListCmd())
	cmd.AddCommand(promptsAddCmd())
	cmd.AddCommand(promptsActivateCmd())

	return cmd
}

func promptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List prompt templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			templates, err := store.GetTemplates(ctx)
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}

			if len(templates) == 0 {
				fmt.Println("No templates defined; the built-in default prompt is in use.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tACTIVE\tCONTENT")
			for _, tmpl := range templates {
				active := ""
				if tmpl.IsActive {
					active = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", tmpl.Name, active, truncate(tmpl.Content, 60))
			}
			return w.Flush()
		},
	}
}

func promptsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a prompt template from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			content, err := os.ReadFile(file) // #nosec G304 -- operator-supplied path
			if err != nil {
				return fmt.Errorf("failed to read template file: %w", err)
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			template := &model.PromptTemplate{
				Name:    args[0],
				Content: string(content),
			}
			if err := store.CreateTemplate(ctx, template); err != nil {
				return fmt.Errorf("failed to add template: %w", err)
			}

			fmt.Printf("Added template %s (inactive; activate with: feedsentry prompts activate %s)\n", template.Name, template.Name)
			return nil
		},
	}

	cmd.Flags().String("file", "", "Path to a file containing the template content")

	return cmd
}

func promptsActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <name>",
		Short: "Activate a prompt template, deactivating all others",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.ActivateTemplate(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to activate template: %w", err)
			}

			fmt.Printf("Activated template %s\n", args[0])
			return nil
		},
	}
}
