package shared

// Pagination is the envelope every list endpoint returns.
// PageIndex is 1-based; Count is the number of matching rows before paging.
type Pagination[T any] struct {
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
	Count     int64 `json:"count"`
	Data      []T   `json:"data"`
}

// NewPagination builds the envelope. A nil page becomes an empty slice.
func NewPagination[T any](pageIndex, pageSize int, count int64, data []T) Pagination[T] {
	if data == nil {
		data = []T{}
	}
	return Pagination[T]{
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Count:     count,
		Data:      data,
	}
}

// TotalPages is the number of pages of PageSize needed to hold Count rows.
func (p Pagination[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Count + int64(p.PageSize) - 1) / int64(p.PageSize))
}
