package cli

import (
	"github.com/spf13/cobra"

	"github.com/civicmap/civicmap/internal/comment"
)

func newListCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all comments",
		Long:  "List all reported comments, optionally filtered by theme.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(theme)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "theme to filter by (e.g. Infrastructure)")

	return cmd
}

func runList(theme string) error {
	api := newAPIClient()

	comments, err := api.ListComments()
	if err != nil {
		return err
	}

	if theme != "" {
		want, _ := comment.ParseTheme(theme)
		var filtered []*comment.Comment
		for _, c := range comments {
			if c.Theme == want {
				filtered = append(filtered, c)
			}
		}
		comments = filtered
	}

	if isJSON() {
		return printJSON(comments)
	}

	return printCommentTable(comments)
}
