package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one comment's full detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid comment ID %q", args[0])
			}
			return runShow(id)
		},
	}
}

func runShow(id int64) error {
	api := newAPIClient()

	// The store contract is snapshot-based; pick the row out locally.
	comments, err := api.ListComments()
	if err != nil {
		return err
	}

	for _, c := range comments {
		if c.ID != id {
			continue
		}
		if isJSON() {
			return printJSON(c)
		}
		printCommentDetail(c)
		return nil
	}

	return fmt.Errorf("comment %d not found", id)
}
