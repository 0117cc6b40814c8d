// Package pagination carries the limit/offset filter and page arithmetic
// shared by every list endpoint.
package pagination

// Filter is the common list filter: substring search, exact status match,
// and a limit/offset window.
type Filter struct {
	Search string
	Status *int
	Limit  int
	Offset int
}

// WithDefaults returns a copy with the module's default limit applied when
// the caller omitted one, and negative offsets clamped.
func (f Filter) WithDefaults(defaultLimit int) Filter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Page describes the position of a result window within the full result
// set. Totals are always computed over active rows only.
type Page struct {
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// Compute derives the page from a total count and the filter window:
// currentPage = floor(offset/limit)+1, totalPages = ceil(total/limit),
// hasNextPage = currentPage < totalPages.
func Compute(total, limit, offset int) Page {
	if limit <= 0 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	currentPage := offset/limit + 1
	totalPages := (total + limit - 1) / limit
	return Page{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		HasNextPage: currentPage < totalPages,
	}
}
