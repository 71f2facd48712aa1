package repository

// Pagination is the page metadata returned alongside paged results.
// NextPage and PreviousPage are nil when there is no such page, so they
// serialize as JSON null rather than a sentinel number.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	PerPage      int   `json:"per_page"`
	Total        int64 `json:"total"`
	TotalPages   int   `json:"total_pages"`
	NextPage     *int  `json:"next_page"`
	PreviousPage *int  `json:"previous_page"`
}

// Page is one page of entities plus its pagination metadata.
type Page[T any] struct {
	Data []T        `json:"data"`
	Meta Pagination `json:"meta"`
}

const defaultPageSize = 10

// NormalizePageSize clamps out-of-range paging input: pages below 1 behave
// as page 1, sizes below 1 as the default size of 10.
func NormalizePageSize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	return page, size
}

// NewPagination computes page metadata for the given (already normalized)
// page and size. total_pages is ceil(total/size) when total > 0, else 1;
// next_page is set iff the current page precedes the last, previous_page
// iff it follows the first.
func NewPagination(page, size int, total int64) Pagination {
	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	p := Pagination{
		CurrentPage: page,
		PerPage:     size,
		Total:       total,
		TotalPages:  totalPages,
	}
	if page < totalPages {
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		p.PreviousPage = &prev
	}
	return p
}
