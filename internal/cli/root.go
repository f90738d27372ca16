// Package cli defines the cobra command tree for hm.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/house-market/internal/client"
	"github.com/evcraddock/house-market/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hm",
		Short:         "Search and browse property listings",
		Long:          "A tool to search property listings by price, size, status and type. Browse them in the web UI as a grid, list or map, or search from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/hm/listings.db)")

	root.AddCommand(
		newSearchCmd(),
		newShowCmd(),
		newImportCmd(),
		newSeedCmd(),
		newRemoveCmd(),
		newServeCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// dbPath returns the --db flag, falling back to fallback and then the
// default path.
func dbPath(fallback string) (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return db.DefaultPath()
}

// openDB opens the SQLite database using the --db flag or default path.
func openDB() (*sql.DB, error) {
	path, err := dbPath("")
	if err != nil {
		return nil, err
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the listings API.
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
