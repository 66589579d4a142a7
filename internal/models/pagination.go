// ABOUTME: Generic paginated response envelope
// ABOUTME: Matches the API's items/total/page/limit/total_pages shape

package models

// MaxPageLimit is the largest page size the API accepts
const MaxPageLimit = 100

// Page is one page of a paginated listing
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// TotalPagesFor returns ceil(total/limit); limit <= 0 yields 0
func TotalPagesFor(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
