// Package query implements the listing search pipeline: filtering, sorting,
// pagination and the active-filter chips derived from the current filters.
package query

import (
	"strings"

	"github.com/evcraddock/house-market/internal/listing"
)

// StatusAll is the status filter value meaning "any status".
const StatusAll = "all"

// Field names one filterable field. The declaration order is the order
// chips are displayed in.
type Field int

const (
	FieldPrice Field = iota
	FieldBeds
	FieldBaths
	FieldStatus
	FieldPropertyType
	FieldTier
	FieldInvestmentType
	FieldSearch
)

var fieldNames = [...]string{
	FieldPrice:          "price",
	FieldBeds:           "beds",
	FieldBaths:          "baths",
	FieldStatus:         "status",
	FieldPropertyType:   "property_type",
	FieldTier:           "tier",
	FieldInvestmentType: "investment_type",
	FieldSearch:         "search",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// ParseField returns the field named name, as written by String.
func ParseField(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return Field(f), true
		}
	}
	return 0, false
}

// PriceRange bounds the listing price in whole dollars. Either end may be
// open.
type PriceRange struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r PriceRange) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// Filters is the user's current filter selection. Every field is optional;
// a zero Filters matches every listing.
type Filters struct {
	Search         string     `json:"search,omitempty"`
	Price          PriceRange `json:"price"`
	MinBeds        *int64     `json:"min_beds,omitempty"`
	MinBaths       *float64   `json:"min_baths,omitempty"`
	Status         string     `json:"status,omitempty"`
	PropertyType   string     `json:"property_type,omitempty"`
	Tier           string     `json:"tier,omitempty"`
	InvestmentType string     `json:"investment_type,omitempty"`
}

// HasStatus reports whether the status filter constrains anything.
func (f Filters) HasStatus() bool {
	return f.Status != "" && f.Status != StatusAll
}

// IsEmpty reports whether no field constrains the result.
func (f Filters) IsEmpty() bool {
	return f.Search == "" &&
		f.Price.IsEmpty() &&
		f.MinBeds == nil &&
		f.MinBaths == nil &&
		!f.HasStatus() &&
		f.PropertyType == "" &&
		f.Tier == "" &&
		f.InvestmentType == ""
}

// Without returns a copy of f with exactly one field cleared.
func (f Filters) Without(field Field) Filters {
	switch field {
	case FieldPrice:
		f.Price = PriceRange{}
	case FieldBeds:
		f.MinBeds = nil
	case FieldBaths:
		f.MinBaths = nil
	case FieldStatus:
		f.Status = ""
	case FieldPropertyType:
		f.PropertyType = ""
	case FieldTier:
		f.Tier = ""
	case FieldInvestmentType:
		f.InvestmentType = ""
	case FieldSearch:
		f.Search = ""
	}
	return f
}

// Matches reports whether l satisfies every constrained field of f.
func Matches(l *listing.Listing, f Filters) bool {
	return matchesSearch(l, f.Search) &&
		matchesPrice(l.Price, f.Price) &&
		atLeast(l.Bedrooms, f.MinBeds) &&
		atLeast(l.Bathrooms, f.MinBaths) &&
		(!f.HasStatus() || l.Status == f.Status) &&
		matchesFacet(l.PropertyType, f.PropertyType) &&
		matchesFacet(l.Tier, f.Tier) &&
		matchesFacet(l.InvestmentType, f.InvestmentType)
}

// Filter returns the listings matching f, in their original order.
func Filter(listings []listing.Listing, f Filters) []listing.Listing {
	out := make([]listing.Listing, 0, len(listings))
	for i := range listings {
		if Matches(&listings[i], f) {
			out = append(out, listings[i])
		}
	}
	return out
}

func matchesSearch(l *listing.Listing, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{l.Address, l.City, l.Zip} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// matchesPrice fails a listing with no price against any set bound.
func matchesPrice(price *int64, r PriceRange) bool {
	if r.IsEmpty() {
		return true
	}
	if price == nil {
		return false
	}
	if r.Min != nil && *price < *r.Min {
		return false
	}
	if r.Max != nil && *price > *r.Max {
		return false
	}
	return true
}

// atLeast treats a missing listing value as zero.
func atLeast[N int64 | float64](value, min *N) bool {
	if min == nil {
		return true
	}
	var v N
	if value != nil {
		v = *value
	}
	return v >= *min
}

func matchesFacet(value, want string) bool {
	return want == "" || value == want
}
