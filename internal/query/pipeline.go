package query

import "github.com/evcraddock/house-market/internal/listing"

// Request is everything the pipeline needs besides the listings.
type Request struct {
	Filters  Filters
	Sort     SortKey
	Page     int
	PageSize int
}

// Result is the computed view of a listing collection.
type Result struct {
	// Visible is the requested page of Matched.
	Visible []listing.Listing
	// Matched is the full filtered and sorted set (map mode plots all of it).
	Matched    []listing.Listing
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Compute filters, sorts and paginates listings. The requested page is
// clamped into range, so a stale page number after a narrowing filter lands
// on the last page instead of an empty one.
func Compute(listings []listing.Listing, req Request) Result {
	pageSize := max(req.PageSize, 1)

	matched := Sort(Filter(listings, req.Filters), req.Sort)
	totalPages := TotalPages(len(matched), pageSize)
	page := ClampPage(req.Page, totalPages)

	return Result{
		Visible:    Paginate(matched, pageSize, page).Items,
		Matched:    matched,
		Total:      len(matched),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
