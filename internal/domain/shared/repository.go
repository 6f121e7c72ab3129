package shared

// Filter carries paging, ordering and free-form criteria into repository
// list queries. An empty OrderBy leaves the repository's natural order.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Filters  map[string]any
}

// DefaultFilter is the first page of twenty rows in natural order
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 20, Filters: map[string]any{}}
}

// Offset is the number of rows before the filter's page
func (f Filter) Offset() int {
	if f.Page < 2 || f.PageSize < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of a list result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated wraps items with the page counters derived from total
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	p := Paginated[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return p
}
