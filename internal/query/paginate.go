package query

// Page is one slice of an ordered result.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// Paginate returns the 1-based page of items. TotalPages is at least 1, even
// for no items. A page outside [1, TotalPages] yields no items; callers
// clamp stale page numbers with ClampPage.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := TotalPages(len(items), pageSize)
	if page < 1 || page > total {
		return Page[T]{Items: []T{}, TotalPages: total}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	if start >= end {
		return Page[T]{Items: []T{}, TotalPages: total}
	}

	return Page[T]{Items: items[start:end], TotalPages: total}
}

// TotalPages returns ceil(count/pageSize), never less than 1.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return max(1, min(page, totalPages))
}
