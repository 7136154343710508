package domain

import "strings"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPage keeps (page-1)*limit well inside int and bigint range.
	MaxPage = 1_000_000
)

// PageRequest is the offset pagination input shared by every list endpoint.
type PageRequest struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize clamps page and limit into their valid ranges.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// PageMeta describes where a page sits inside the full result set.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Next       *int  `json:"next"`
	Prev       *int  `json:"prev"`
}

// NewPageMeta computes next/prev from total, page and limit. Next is set only
// while rows remain past this page; Prev never points beyond the last page.
func NewPageMeta(total int64, req PageRequest) PageMeta {
	req = req.Normalize()
	if total < 0 {
		total = 0
	}

	limit := int64(req.Limit)
	totalPages := int((total + limit - 1) / limit)

	meta := PageMeta{
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}

	if int64(req.Page)*limit < total {
		next := req.Page + 1
		meta.Next = &next
	}
	if req.Page > 1 {
		prev := req.Page - 1
		lastPage := totalPages
		if lastPage < 1 {
			lastPage = 1
		}
		if prev > lastPage {
			prev = lastPage
		}
		meta.Prev = &prev
	}
	return meta
}

// Page is the list payload: {"items": [...], "meta": {...}}.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: NewPageMeta(total, req)}
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder defaults to descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}
