package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify comment text into a theme without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(strings.Join(args, " "))
		},
	}
}

func runClassify(text string) error {
	api := newAPIClient()

	theme, err := api.Classify(text)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]string{"theme": string(theme)})
	}

	fmt.Println(theme)
	return nil
}
