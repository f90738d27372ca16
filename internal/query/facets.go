package query

import (
	"slices"

	"github.com/evcraddock/house-market/internal/listing"
)

// Facets are the distinct values available to each select-style filter.
type Facets struct {
	Statuses        []string
	PropertyTypes   []string
	Tiers           []string
	InvestmentTypes []string
}

// CollectFacets gathers the filter choices present in listings.
func CollectFacets(listings []listing.Listing) Facets {
	return Facets{
		Statuses:        Distinct(listings, func(l *listing.Listing) string { return l.Status }),
		PropertyTypes:   Distinct(listings, func(l *listing.Listing) string { return l.PropertyType }),
		Tiers:           Distinct(listings, func(l *listing.Listing) string { return l.Tier }),
		InvestmentTypes: Distinct(listings, func(l *listing.Listing) string { return l.InvestmentType }),
	}
}

// Distinct returns the sorted, non-empty values of field across listings.
func Distinct(listings []listing.Listing, field func(*listing.Listing) string) []string {
	values := make([]string, 0, len(listings))
	for i := range listings {
		if v := field(&listings[i]); v != "" {
			values = append(values, v)
		}
	}
	slices.Sort(values)
	return slices.Compact(values)
}
