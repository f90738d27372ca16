package query

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evcraddock/house-market/internal/listing"
)

var printer = message.NewPrinter(language.English)

// Chip is one active filter rendered as a removable label.
type Chip struct {
	Field Field
	Label string

	base Filters
}

// Clear returns the filters with this chip's field reset and every other
// field unchanged.
func (c Chip) Clear() Filters {
	return c.base.Without(c.Field)
}

// Describe returns one chip per constrained field, in the order price, beds,
// baths, status, property type, tier, investment type. The search term is
// not a chip.
func Describe(f Filters) []Chip {
	var chips []Chip
	add := func(field Field, label string) {
		chips = append(chips, Chip{Field: field, Label: label, base: f})
	}

	if label, ok := PriceLabel(f.Price); ok {
		add(FieldPrice, label)
	}
	if f.MinBeds != nil {
		add(FieldBeds, strconv.FormatInt(*f.MinBeds, 10)+"+ beds")
	}
	if f.MinBaths != nil {
		add(FieldBaths, strconv.FormatFloat(*f.MinBaths, 'f', -1, 64)+"+ baths")
	}
	if f.HasStatus() {
		add(FieldStatus, listing.StatusLabel(f.Status))
	}
	if f.PropertyType != "" {
		add(FieldPropertyType, "Type: "+f.PropertyType)
	}
	if f.Tier != "" {
		add(FieldTier, "Tier: "+f.Tier)
	}
	if f.InvestmentType != "" {
		add(FieldInvestmentType, "Investment: "+f.InvestmentType)
	}

	return chips
}

// PriceLabel renders a price range as "$min - $max", "$min+" or "Up to $max".
func PriceLabel(r PriceRange) (string, bool) {
	switch {
	case r.Min != nil && r.Max != nil:
		return FormatPrice(*r.Min) + " - " + FormatPrice(*r.Max), true
	case r.Min != nil:
		return FormatPrice(*r.Min) + "+", true
	case r.Max != nil:
		return "Up to " + FormatPrice(*r.Max), true
	}
	return "", false
}

// FormatPrice formats whole dollars with thousands separators, e.g. $1,250,000.
func FormatPrice(dollars int64) string {
	return printer.Sprintf("$%d", dollars)
}
