package order

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListQuery represents pagination parameters for listing a customer's
// orders. The page index is zero-based.
type ListQuery struct {
	CustomerID int64 `json:"customerId"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

// Normalize clamps the query to sane bounds: negative pages become the
// first page, a missing page size falls back to the default and oversized
// requests are capped.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	return q
}
