package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/sample"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import listings from a JSON file",
		Long:  "Import a JSON array of listings into the local database. Listings with an existing id are replaced; listings without an id get a new one. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			listings, err := listing.DecodeList(data)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), listings)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample listings",
		Long:  "Import the bundled sample listings into the local database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := sample.Listings()
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), listings)
		},
	}
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func runImport(ctx context.Context, w io.Writer, listings []listing.Listing) error {
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	saved, err := listing.NewService(listing.NewRepository(database)).Import(ctx, listings)
	if err != nil {
		return fmt.Errorf("importing listings: %w", err)
	}

	if isJSON() {
		ids := make([]listing.ID, len(saved))
		for i, l := range saved {
			ids[i] = l.ID
		}
		return printJSON(w, map[string]any{"imported": len(saved), "ids": ids})
	}

	fmt.Fprintf(w, "Imported %d %s.\n", len(saved), plural(len(saved), "listing", "listings"))
	return nil
}
