package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/house-market/internal/listing"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a listing",
		Long:  "Remove a listing from the local database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), cmd.OutOrStdout(), listing.ID(args[0]))
		},
	}
}

func runRemove(ctx context.Context, w io.Writer, id listing.ID) error {
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := listing.NewRepository(database).Delete(ctx, id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, map[string]any{
			"id":      id,
			"removed": true,
		})
	}

	fmt.Fprintf(w, "Listing %s removed.\n", id)
	return nil
}
