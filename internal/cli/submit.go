package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/civicmap/civicmap/internal/mapview"
	"github.com/civicmap/civicmap/internal/submit"
)

func newSubmitCmd() *cobra.Command {
	var (
		lat float64
		lng float64
		zip string
	)

	cmd := &cobra.Command{
		Use:   "submit <comment text>",
		Short: "Report a civic issue at a location",
		Long:  "Drop a pin: submit a comment for a map location. The comment is classified into a theme and saved; all connected viewers see the new marker.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(strings.Join(args, " "), zip, mapview.Location{Lat: lat, Lng: lng})
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the pin")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude of the pin")
	cmd.Flags().StringVar(&zip, "zip", "", "5-digit ZIP code")

	if err := cmd.MarkFlagRequired("lat"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagRequired("lng"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagRequired("zip"); err != nil {
		panic(err)
	}

	return cmd
}

func runSubmit(text, zip string, loc mapview.Location) error {
	api := newAPIClient()
	flow := submit.NewFlow(api, api)

	stored, err := flow.Submit(text, zip, loc)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(stored)
	}

	fmt.Printf("Saved comment #%d (%s)\n", stored.ID, stored.Theme)
	printCommentDetail(stored)
	return nil
}
