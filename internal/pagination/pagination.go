// Package pagination computes skip/take windows for page-numbered listings.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of records returned per page.
const DefaultPageSize = 4

// Window is a skip/take slice of a listing. Take == 0 means "no limit".
type Window struct {
	Page     int
	PageSize int
	Skip     int
	Take     int
}

// ParsePage reads a page query value. Absent, non-numeric and non-positive
// values all resolve to page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page <= 0 {
		return 1
	}
	return page
}

// NewWindow returns the window for a 1-based page. Pages whose offset would
// not fit in an int are clamped to the last addressable page.
func NewWindow(page, pageSize int) Window {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}
	return Window{
		Page:     page,
		PageSize: pageSize,
		Skip:     (page - 1) * pageSize,
		Take:     pageSize,
	}
}

// All returns an unbounded window.
func All() Window {
	return Window{Page: 1}
}

// Paged reports whether the window limits the result set.
func (w Window) Paged() bool {
	return w.Take > 0
}

// TotalPages is ceil(total / pageSize).
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
