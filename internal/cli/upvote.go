package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/civicmap/civicmap/internal/upvote"
)

func newUpvoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upvote <id>",
		Short: "Upvote a comment (once per device)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid comment ID %q", args[0])
			}
			return runUpvote(id)
		},
	}
}

func runUpvote(id int64) error {
	api := newAPIClient()
	if devicePath, err := upvote.DefaultDevicePath(); err == nil {
		api.SetDeviceID(upvote.DeviceID(devicePath))
	}

	comments, err := api.ListComments()
	if err != nil {
		return err
	}

	for _, c := range comments {
		if c.ID != id {
			continue
		}

		storePath, err := upvote.DefaultStorePath()
		if err != nil {
			return fmt.Errorf("locating vote store: %w", err)
		}

		voter := upvote.New(upvote.NewFileStore(storePath), api, nil)
		if err := voter.Vote(c); err != nil {
			if errors.Is(err, upvote.ErrAlreadyVoted) {
				fmt.Printf("Already upvoted comment #%d from this device.\n", id)
				return nil
			}
			return err
		}

		fmt.Printf("Upvoted comment #%d (now %d votes)\n", c.ID, c.Upvotes)
		return nil
	}

	return fmt.Errorf("comment %d not found", id)
}
