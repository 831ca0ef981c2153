// Package cli defines the cobra command tree for civicmap.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civicmap/civicmap/internal/client"
	"github.com/civicmap/civicmap/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cm",
		Short:         "Crowdsourced civic issue map",
		Long:          "Report and browse civic issues on a shared map. Drop a pin with a comment, let it get classified into a theme, and watch reports from other residents arrive live.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.civicmap/civicmap.db)")

	root.AddCommand(
		newServeCmd(),
		newListCmd(),
		newShowCmd(),
		newSubmitCmd(),
		newUpvoteCmd(),
		newClassifyCmd(),
		newWatchCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag, env, or default path.
func openDB(envPath string) (*sql.DB, error) {
	path := flagDB
	if path == "" {
		path = envPath
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the civicmap API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
