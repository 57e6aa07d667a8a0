package domain

// PaginationParams selects one page of a list. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the page starts.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages is the number of pages needed for total rows.
func (p PaginationParams) TotalPages(total int) int {
	if p.PageSize < 1 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
