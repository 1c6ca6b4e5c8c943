package models

// Listing defaults applied whenever a caller omits or mangles page/limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// NormalizePage falls back to DefaultPage for non-positive values.
func NormalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// NormalizeLimit falls back to DefaultLimit for non-positive values.
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	return limit
}

// ListResult is the uniform paginated envelope returned by list services.
// Total always reflects the filtered predicate, not the page slice.
type ListResult[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewListResult computes the envelope. TotalPages is ceil(total/limit),
// zero when total is zero.
func NewListResult[T any](items []T, total, page, limit int) ListResult[T] {
	if items == nil {
		items = []T{}
	}
	page = NormalizePage(page)
	limit = NormalizeLimit(limit)
	return ListResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}

// UserListParams filters the profile listing.
type UserListParams struct {
	Page   int
	Limit  int
	Search string
	Role   string
	Status string
}

// ShootingListParams filters the shooting listing.
type ShootingListParams struct {
	Page        int
	Limit       int
	Search      string
	Title       string
	State       string
	RecruitType string
}
