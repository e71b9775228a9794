// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for paged listings.
//
// # Overview
//
// It standardizes how a requested page number is clamped and how the
// resulting window and navigation metadata are derived from a total count.
package pagination

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds a clamped page and limit.
type Params struct {
	Page  int
	Limit int
}

// New clamps page and limit to their valid ranges.
//
// # Clamping
//
// Zero or negative pages become [DefaultPage]. Limits outside 1..[MaxLimit]
// become [DefaultLimit].
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// Offset returns the index of the first item on the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Bounds returns the half-open slice range of the page within total items.
// Pages past the end yield an empty range.
func (p Params) Bounds(total int) (start, end int) {
	start = min(p.Offset(), total)
	end = min(start+p.Limit, total)
	return start, end
}

// Meta is the navigation metadata shown with a paged listing.
type Meta struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// NewMeta constructs pagination metadata.
//
// It automatically calculates the TotalPages based on the total count and limit.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// HasPrevious reports whether a page precedes this one.
func (m Meta) HasPrevious() bool { return m.Page > 1 }

// HasNext reports whether a page follows this one.
func (m Meta) HasNext() bool { return m.Page < m.TotalPages }

// Exists reports whether the page is within range. The first page of an
// empty listing exists.
func (m Meta) Exists() bool { return m.Page == DefaultPage || m.Page <= m.TotalPages }
