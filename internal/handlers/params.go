package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/videotube/backend/internal/listing"
)

// listingParams decodes the uniform pagination and sorting query parameters.
// Unparseable values fall back to defaults rather than erroring.
func listingParams(r *http.Request) listing.Params {
	q := r.URL.Query()

	params := listing.Params{
		SortBy:  strings.TrimSpace(q.Get("sortBy")),
		Query:   strings.TrimSpace(q.Get("query")),
		SortAsc: strings.EqualFold(q.Get("sortDir"), "asc"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		params.PageSize = size
	}

	return params
}
