package domain

// Paginated is one page of a list endpoint. Page is 1-based and len(Data) <= Limit.
type Paginated[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// TotalPagesFor computes the page count for total items split into pages of limit.
func TotalPagesFor(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
