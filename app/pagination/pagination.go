// Package pagination splits an ordered collection into fixed-size pages.
//
// Page k always starts at offset (k-1)*PerPage. A page number past the last
// page yields an empty page rather than an error.
package pagination

import (
	"strconv"
	"strings"
)

// PerPage is the number of posts shown on every feed page.
const PerPage = 10

// Page is one slice of a collection plus enough metadata to render pager links.
type Page[T any] struct {
	Items    []T
	Number   int
	PerPage  int
	Total    int
	NumPages int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

// HasPrevious reports whether an earlier page exists.
func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// HasOtherPages reports whether the pager should be shown at all.
func (p Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p Page[T]) NextNumber() int {
	return p.Number + 1
}

func (p Page[T]) PreviousNumber() int {
	return p.Number - 1
}

// Len returns the number of items on this page.
func (p Page[T]) Len() int {
	return len(p.Items)
}

// Paginator pages over an ordered slice.
type Paginator[T any] struct {
	items   []T
	perPage int
}

// New returns a paginator over items. A non-positive perPage falls back to PerPage.
func New[T any](items []T, perPage int) *Paginator[T] {
	if perPage < 1 {
		perPage = PerPage
	}
	return &Paginator[T]{items: items, perPage: perPage}
}

// Count returns the total number of items.
func (p *Paginator[T]) Count() int {
	return len(p.items)
}

// NumPages returns the number of pages. An empty collection still has one
// (empty) first page.
func (p *Paginator[T]) NumPages() int {
	if len(p.items) == 0 {
		return 1
	}
	return (len(p.items) + p.perPage - 1) / p.perPage
}

// Page returns page number (1-indexed). Numbers below 1 are treated as 1.
func (p *Paginator[T]) Page(number int) Page[T] {
	if number < 1 {
		number = 1
	}
	page := Page[T]{
		Number:   number,
		PerPage:  p.perPage,
		Total:    len(p.items),
		NumPages: p.NumPages(),
		Items:    []T{},
	}

	// Checked before computing the offset so huge numbers cannot overflow
	if number > page.NumPages || len(p.items) == 0 {
		return page
	}
	offset := (number - 1) * p.perPage
	end := offset + p.perPage
	if end > len(p.items) {
		end = len(p.items)
	}
	page.Items = p.items[offset:end]
	return page
}

// GetPage resolves a raw query parameter to a page. Missing, non-numeric
// and non-positive values give page 1, "last" gives the last page.
func (p *Paginator[T]) GetPage(raw string) Page[T] {
	return p.Page(ParseNumber(raw, p.NumPages()))
}

// ParseNumber turns a raw page parameter into a page number using the same
// rules as GetPage. numPages is only consulted for "last".
func ParseNumber(raw string, numPages int) int {
	raw = strings.TrimSpace(raw)
	if raw == "last" {
		if numPages < 1 {
			return 1
		}
		return numPages
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
