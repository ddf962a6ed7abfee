package listing

import "strings"

const (
	// DefaultPageSize bounds result batches when the caller does not choose one.
	DefaultPageSize = 10
	// MaxPageSize caps the batch size a caller may request.
	MaxPageSize = 100
)

// Params describes one page of a filtered, sorted listing. Page numbering is
// 1-based.
type Params struct {
	Page     int
	PageSize int
	SortBy   string
	SortAsc  bool

	// OwnerID restricts results to a single owning account when non-empty.
	OwnerID string
	// PublishedOnly restricts video listings to published entries.
	PublishedOnly bool
	// Query is matched case-insensitively against title and description.
	Query string
}

// Normalize clamps the paging fields into their valid ranges and applies the
// default sort (creation time, newest first).
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if strings.TrimSpace(p.SortBy) == "" {
		p.SortBy = "created_at"
		p.SortAsc = false
	}
	return p
}

// Offset returns the number of rows to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Result is one page of a listing along with the paging totals every listing
// endpoint reports.
type Result[T any] struct {
	Items        []T `json:"items"`
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

// NewResult assembles a page result, computing totalPages = ceil(total/pageSize)
// and guaranteeing a non-nil item slice so empty pages serialize as [].
func NewResult[T any](items []T, p Params, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return Result[T]{
		Items:        items,
		Page:         p.Page,
		PageSize:     p.PageSize,
		TotalPages:   totalPages,
		TotalResults: total,
	}
}
