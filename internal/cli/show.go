package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/house-market/internal/listing"
)

func newShowCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show listing details",
		Long:  "Show full details for a listing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), listing.ID(args[0]), local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "read from the local database instead of the server")

	return cmd
}

func runShow(ctx context.Context, w io.Writer, id listing.ID, local bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		l   *listing.Listing
		err error
	)
	if local {
		l, err = showLocal(ctx, id)
	} else {
		l, err = newAPIClient().Get(ctx, id)
	}
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, l)
	}
	printListingSummary(w, l)
	return nil
}

func showLocal(ctx context.Context, id listing.ID) (*listing.Listing, error) {
	database, err := openDB()
	if err != nil {
		return nil, err
	}
	defer closeDB(database)

	return listing.NewRepository(database).Get(ctx, id)
}
