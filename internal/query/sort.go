package query

import (
	"cmp"
	"slices"

	"github.com/evcraddock/house-market/internal/listing"
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// SortKeys lists the supported orderings in display order.
var SortKeys = []SortKey{SortNewest, SortPriceAsc, SortPriceDesc}

// Label returns the display label for k.
func (k SortKey) Label() string {
	switch k {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	default:
		return "Newest"
	}
}

// ParseSortKey returns the matching key, or SortNewest for anything unknown.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortNewest, SortPriceAsc, SortPriceDesc:
		return k
	}
	return SortNewest
}

// Compare orders a before b (negative), after b (positive) or neither.
func Compare(a, b *listing.Listing, key SortKey) int {
	switch key {
	case SortPriceAsc:
		return cmp.Compare(priceOf(a), priceOf(b))
	case SortPriceDesc:
		return cmp.Compare(priceOf(b), priceOf(a))
	default:
		// Zero times are the earliest possible date, so they land last.
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	}
}

// Sort returns a stably sorted copy of listings. The input is not modified.
func Sort(listings []listing.Listing, key SortKey) []listing.Listing {
	out := slices.Clone(listings)
	slices.SortStableFunc(out, func(a, b listing.Listing) int {
		return Compare(&a, &b, key)
	})
	return out
}

func priceOf(l *listing.Listing) int64 {
	if l.Price == nil {
		return 0
	}
	return *l.Price
}
