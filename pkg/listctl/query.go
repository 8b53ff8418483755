package listctl

import "maps"

// Query is the state a page is fetched for.
type Query struct {
	// SearchTerm is the committed (debounced) search text
	SearchTerm string
	// Filters holds discrete filter choices, one value per key
	Filters map[string]string
	// Page is 1-based
	Page int
	// PageSize is the number of items per page
	PageSize int
}

// Clone returns a copy that shares no map with q.
func (q Query) Clone() Query {
	out := q
	out.Filters = maps.Clone(q.Filters)
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	return out
}

// Equal reports whether both queries would fetch the same page.
func (q Query) Equal(other Query) bool {
	return q.SearchTerm == other.SearchTerm &&
		q.Page == other.Page &&
		q.PageSize == other.PageSize &&
		maps.Equal(q.Filters, other.Filters)
}

// Offset returns the row offset for the current page (0-based).
func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// PageResult is one page of items together with the total across all pages.
type PageResult[T any] struct {
	Items []T
	Total int
}

// PaginationView is derived from a total, a page size and the current page.
type PaginationView struct {
	TotalPages int
	StartItem  int
	EndItem    int
}

// Paginate computes the pager view. TotalPages is never below 1, so an empty
// list still has a single (empty) page. StartItem and EndItem are 1-based and
// both 0 when there is nothing to show.
func Paginate(total, pageSize, page int) PaginationView {
	if pageSize < 1 {
		pageSize = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	view := PaginationView{TotalPages: totalPages}
	if total == 0 || page < 1 {
		return view
	}
	start := (page-1)*pageSize + 1
	if start > total {
		return view
	}
	end := page * pageSize
	if end > total {
		end = total
	}
	view.StartItem = start
	view.EndItem = end
	return view
}

// clampPage keeps page within [1, totalPages].
func clampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
