package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names for the listing search state.
const (
	ParamSearch     = "q"
	ParamMinPrice   = "min_price"
	ParamMaxPrice   = "max_price"
	ParamBeds       = "beds"
	ParamBaths      = "baths"
	ParamStatus     = "status"
	ParamType       = "type"
	ParamTier       = "tier"
	ParamInvestment = "investment"
	ParamSort       = "sort"
	ParamPage       = "page"
)

// ParseFilters reads filters from query values. A parameter that is absent
// leaves the previous value in place, an empty one clears it, and a numeric
// parameter that does not parse (or is negative) keeps the previous valid
// value rather than failing.
func ParseFilters(values url.Values, prev Filters) Filters {
	f := prev

	if v, ok := lookup(values, ParamSearch); ok {
		f.Search = v
	}
	if v, ok := lookup(values, ParamMinPrice); ok {
		f.Price.Min = parseInt(v, f.Price.Min)
	}
	if v, ok := lookup(values, ParamMaxPrice); ok {
		f.Price.Max = parseInt(v, f.Price.Max)
	}
	if v, ok := lookup(values, ParamBeds); ok {
		f.MinBeds = parseInt(v, f.MinBeds)
	}
	if v, ok := lookup(values, ParamBaths); ok {
		f.MinBaths = parseFloat(v, f.MinBaths)
	}
	if v, ok := lookup(values, ParamStatus); ok {
		if v == StatusAll {
			v = ""
		}
		f.Status = v
	}
	if v, ok := lookup(values, ParamType); ok {
		f.PropertyType = v
	}
	if v, ok := lookup(values, ParamTier); ok {
		f.Tier = v
	}
	if v, ok := lookup(values, ParamInvestment); ok {
		f.InvestmentType = v
	}

	return f
}

// EncodeFilters writes f into values, removing parameters for empty fields.
// Parameters it does not own (view, sort, page) are left alone.
func EncodeFilters(f Filters, values url.Values) {
	set := func(key, v string) {
		if v == "" {
			values.Del(key)
			return
		}
		values.Set(key, v)
	}

	set(ParamSearch, f.Search)
	set(ParamMinPrice, formatInt(f.Price.Min))
	set(ParamMaxPrice, formatInt(f.Price.Max))
	set(ParamBeds, formatInt(f.MinBeds))
	if f.MinBaths != nil {
		set(ParamBaths, strconv.FormatFloat(*f.MinBaths, 'f', -1, 64))
	} else {
		values.Del(ParamBaths)
	}
	if f.HasStatus() {
		set(ParamStatus, f.Status)
	} else {
		values.Del(ParamStatus)
	}
	set(ParamType, f.PropertyType)
	set(ParamTier, f.Tier)
	set(ParamInvestment, f.InvestmentType)
}

// filterParams are the parameters ParseFilters reads.
var filterParams = []string{
	ParamSearch, ParamMinPrice, ParamMaxPrice, ParamBeds, ParamBaths,
	ParamStatus, ParamType, ParamTier, ParamInvestment,
}

// HasFilterParams reports whether values carries any filter parameter.
func HasFilterParams(values url.Values) bool {
	for _, key := range filterParams {
		if _, ok := values[key]; ok {
			return true
		}
	}
	return false
}

// ParsePage returns the page number in s, or 1 when it is missing or invalid.
func ParsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func lookup(values url.Values, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

func parseInt(s string, prev *int64) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil || n < 0 {
		return prev
	}
	return &n
}

func parseFloat(s string, prev *float64) *float64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return prev
	}
	return &n
}

func formatInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
