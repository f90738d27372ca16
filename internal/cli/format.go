package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/house-market/internal/client"
	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/query"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printListingSummary prints a single listing in text format.
func printListingSummary(w io.Writer, l *listing.Listing) {
	fmt.Fprintf(w, "Listing %s\n", l.ID)
	if l.Title != "" {
		fmt.Fprintf(w, "  Title:    %s\n", l.Title)
	}
	fmt.Fprintf(w, "  Address:  %s\n", l.FullAddress())
	if l.Price != nil {
		fmt.Fprintf(w, "  Price:    %s\n", query.FormatPrice(*l.Price))
	}
	if l.Bedrooms != nil {
		fmt.Fprintf(w, "  Beds:     %d\n", *l.Bedrooms)
	}
	if l.Bathrooms != nil {
		fmt.Fprintf(w, "  Baths:    %s\n", formatFloat(*l.Bathrooms))
	}
	if l.Sqft != nil {
		fmt.Fprintf(w, "  Sqft:     %d\n", *l.Sqft)
	}
	if l.PropertyType != "" {
		fmt.Fprintf(w, "  Type:     %s\n", l.PropertyType)
	}
	if l.Tier != "" {
		fmt.Fprintf(w, "  Tier:     %s\n", l.Tier)
	}
	if l.InvestmentType != "" {
		fmt.Fprintf(w, "  Invest:   %s\n", l.InvestmentType)
	}
	fmt.Fprintf(w, "  Status:   %s\n", l.StatusLabel())
	if !l.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Listed:   %s\n", l.CreatedAt.Format("2006-01-02"))
	}
	if l.Description != "" {
		fmt.Fprintf(w, "\n  %s\n", l.Description)
	}
}

// printListingTable prints listings as a formatted table.
func printListingTable(w io.Writer, listings []listing.Listing) error {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tADDRESS\tCITY\tPRICE\tBED\tBATH\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "--\t-------\t----\t-----\t---\t----\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for i := range listings {
		l := &listings[i]
		price := "-"
		if l.Price != nil {
			price = query.FormatPrice(*l.Price)
		}
		beds := "-"
		if l.Bedrooms != nil {
			beds = strconv.FormatInt(*l.Bedrooms, 10)
		}
		baths := "-"
		if l.Bathrooms != nil {
			baths = formatFloat(*l.Bathrooms)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, truncate(l.Address, 32), truncate(l.City, 16), price, beds, baths, l.StatusLabel()); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printSearchResult prints a page of results with its filters and paging.
func printSearchResult(w io.Writer, resp *client.SearchResponse) error {
	if !resp.Live {
		fmt.Fprintln(w, "Live data unavailable; showing sample listings.")
		fmt.Fprintln(w)
	}

	if len(resp.Chips) > 0 {
		labels := make([]string, len(resp.Chips))
		for i, c := range resp.Chips {
			labels[i] = "[" + c.Label + "]"
		}
		fmt.Fprintf(w, "Filters: %s\n\n", strings.Join(labels, " "))
	}

	if err := printListingTable(w, resp.Listings); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPage %d of %d · %d %s · sorted by %s\n",
		resp.Page, resp.TotalPages, resp.Total, plural(resp.Total, "listing", "listings"),
		query.ParseSortKey(resp.Sort).Label())
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
