package models

// APIResponse is the envelope every backend JSON endpoint answers with.
type APIResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Page mirrors a Spring Data page.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// PageCount is the number of pages to render; an empty result still renders one.
func (p *Page[T]) PageCount() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}
