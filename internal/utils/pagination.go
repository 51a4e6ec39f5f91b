package utils

import (
	"fmt"
	"strings"
)

// Pagination describes one page of a result set. Pages are 1-based.
type Pagination struct {
	Total      int `json:"total"`
	PerPage    int `json:"perPage"`
	Current    int `json:"page"`
	Offset     int `json:"-"`
	TotalPages int `json:"totalPages"`
}

// NewPagination clamps current into [1, TotalPages]. perPage < 1 becomes
// 20.
func NewPagination(total, perPage, current int) Pagination {
	if perPage < 1 {
		perPage = 20
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	current = max(1, min(current, totalPages))

	return Pagination{
		Total:      total,
		PerPage:    perPage,
		Current:    current,
		Offset:     (current - 1) * perPage,
		TotalPages: totalPages,
	}
}

// LimitOffset returns the SQL window for the page.
func (p Pagination) LimitOffset() (limit, offset int) {
	return p.PerPage, p.Offset
}

// Range returns the 1-based positions of the first and last items on the
// page.
func (p Pagination) Range() (start, end int) {
	return p.Offset + 1, min(p.Offset+p.PerPage, p.Total)
}

func (p Pagination) HasNext() bool { return p.Current < p.TotalPages }
func (p Pagination) HasPrev() bool { return p.Current > 1 }

// FormatSummary returns "Showing 21-40 of 57 workouts (page 2 of 3)".
func (p Pagination) FormatSummary(noun string) string {
	if p.Total == 0 {
		return "No " + noun + "s"
	}
	start, end := p.Range()
	s := fmt.Sprintf("Showing %d-%d of %d %s%s", start, end, p.Total, noun, plural(p.Total))
	if p.TotalPages > 1 {
		s += fmt.Sprintf(" (page %d of %d)", p.Current, p.TotalPages)
	}
	return s
}

// FormatNavigation returns --page hints, or "" for a single page.
func (p Pagination) FormatNavigation() string {
	if p.TotalPages <= 1 {
		return ""
	}
	var hints []string
	if p.HasPrev() {
		hints = append(hints, fmt.Sprintf("use --page %d for previous", p.Current-1))
	}
	if p.HasNext() {
		hints = append(hints, fmt.Sprintf("use --page %d for next", p.Current+1))
	}
	return strings.Join(hints, ", ")
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
