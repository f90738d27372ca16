package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/evcraddock/house-market/internal/browse"
	"github.com/evcraddock/house-market/internal/client"
	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/query"
	"github.com/evcraddock/house-market/internal/view"
)

type searchFlags struct {
	search, minPrice, maxPrice, beds, baths string
	status, propertyType, tier, investment  string
	sort, view                              string
	page                                    int
	local                                   bool
}

// values encodes the flags as listing query parameters, so the CLI parses
// them exactly like the web UI does.
func (f searchFlags) values() url.Values {
	values := url.Values{}
	for key, v := range map[string]string{
		query.ParamSearch:     f.search,
		query.ParamMinPrice:   f.minPrice,
		query.ParamMaxPrice:   f.maxPrice,
		query.ParamBeds:       f.beds,
		query.ParamBaths:      f.baths,
		query.ParamStatus:     f.status,
		query.ParamType:       f.propertyType,
		query.ParamTier:       f.tier,
		query.ParamInvestment: f.investment,
		query.ParamSort:       f.sort,
		view.Param:            f.view,
	} {
		if v != "" {
			values.Set(key, v)
		}
	}
	if f.page > 1 {
		values.Set(query.ParamPage, fmt.Sprint(f.page))
	}
	return values
}

func (f searchFlags) options() client.SearchOptions {
	values := f.values()
	return client.SearchOptions{
		Filters: query.ParseFilters(values, query.Filters{}),
		Sort:    query.ParseSortKey(f.sort),
		Page:    query.ParsePage(values.Get(query.ParamPage)),
		View:    view.FromQuery(values),
	}
}

func newSearchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search listings",
		Long:  "Search listings by address, price, beds, baths, status and type. Results come from the server unless --local is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.search, "query", "q", "", "match address, city or ZIP")
	flags.StringVar(&f.minPrice, "min-price", "", "minimum price in dollars")
	flags.StringVar(&f.maxPrice, "max-price", "", "maximum price in dollars")
	flags.StringVar(&f.beds, "beds", "", "minimum bedrooms")
	flags.StringVar(&f.baths, "baths", "", "minimum bathrooms")
	flags.StringVar(&f.status, "status", "", "listing status (for sale, pending, sold, off market)")
	flags.StringVar(&f.propertyType, "type", "", "property type")
	flags.StringVar(&f.tier, "tier", "", "listing tier")
	flags.StringVar(&f.investment, "investment", "", "investment type")
	flags.StringVar(&f.sort, "sort", string(query.SortNewest), "sort order (newest|price_asc|price_desc)")
	flags.StringVar(&f.view, "view", string(view.Default), "view mode, which sets the page size (grid|list|map)")
	flags.IntVar(&f.page, "page", 1, "page number")
	flags.BoolVar(&f.local, "local", false, "search the local database instead of the server")

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, f searchFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		resp *client.SearchResponse
		err  error
	)
	if f.local {
		resp, err = searchLocal(ctx, f.values())
	} else {
		resp, err = newAPIClient().Search(ctx, f.options())
	}
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if isJSON() {
		return printJSON(w, resp)
	}
	return printSearchResult(w, resp)
}

// searchLocal runs the same pipeline the server runs, over the local store.
func searchLocal(ctx context.Context, values url.Values) (*client.SearchResponse, error) {
	database, err := openDB()
	if err != nil {
		return nil, err
	}
	defer closeDB(database)

	c := browse.New(listing.NewRepository(database), browse.Options{})
	defer c.Close()
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	c.Apply(values)

	res := c.Result()
	resp := &client.SearchResponse{
		Listings:   res.Visible,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		PageSize:   res.PageSize,
		View:       string(c.Mode()),
		Sort:       string(c.Sort()),
		Live:       true,
	}
	for _, chip := range c.Chips() {
		resp.Chips = append(resp.Chips, client.Chip{Field: chip.Field.String(), Label: chip.Label})
	}
	return resp, nil
}
