package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/house-market/internal/listing"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the server and local database",
		Long:  "Tests the connection to the server and reports how many listings the local database holds.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runStatus(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	serverURL := getServerURL()
	fmt.Fprintf(w, "Server:   %s\n", serverURL)

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := newAPIClient().Health(healthCtx); err != nil {
		fmt.Fprintf(w, "Status:   ✗ cannot reach server (%v)\n", err)
		fmt.Fprintln(w, "\nRun 'hm serve' to start it, or 'hm config set-server <url>' to point elsewhere.")
	} else {
		fmt.Fprintln(w, "Status:   ✓ connected")
	}

	path, err := dbPath("")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Database: %s\n", path)

	database, err := openDB()
	if err != nil {
		fmt.Fprintf(w, "Listings: ✗ cannot open database (%v)\n", err)
		return nil
	}
	defer closeDB(database)

	n, err := listing.NewRepository(database).Count(ctx)
	if err != nil {
		fmt.Fprintf(w, "Listings: ✗ %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "Listings: %d\n", n)
	if n == 0 {
		fmt.Fprintln(w, "\nRun 'hm seed' to load the sample listings.")
	}
	return nil
}
