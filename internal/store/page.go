package store

// PagedResult holds one page of a query result along with the pagination
// counters computed by the store. TotalPages is derived from TotalCount and
// PageSize; HasNextPage/HasPreviousPage reflect the position of CurrentPage
// within that range.
type PagedResult[T any] struct {
	Items           []T
	TotalCount      int
	PageSize        int
	CurrentPage     int
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
}

// NewPagedResult assembles a PagedResult from a page of items and the total
// row count, computing the derived pagination fields.
func NewPagedResult[T any](items []T, totalCount, currentPage, pageSize int) PagedResult[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (totalCount + pageSize - 1) / pageSize

	return PagedResult[T]{
		Items:           items,
		TotalCount:      totalCount,
		PageSize:        pageSize,
		CurrentPage:     currentPage,
		TotalPages:      totalPages,
		HasNextPage:     currentPage < totalPages,
		HasPreviousPage: currentPage > 1 && totalCount > 0,
	}
}
