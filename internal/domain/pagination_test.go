package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestPageRequestNormalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: DefaultPageLimit}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 1, Limit: MaxPageLimit}, PageRequest{Page: -3, Limit: 1000}.Normalize())
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 0, Limit: 0}.Offset())
}

func TestPageRequestHugePageIsCapped(t *testing.T) {
	req := PageRequest{Page: math.MaxInt, Limit: MaxPageLimit}
	assert.Equal(t, MaxPage, req.Normalize().Page)
	assert.Equal(t, (MaxPage-1)*MaxPageLimit, req.Offset())
	assert.Positive(t, req.Offset())

	meta := NewPageMeta(25, req)
	assert.Nil(t, meta.Next)
}

func TestNewPageMeta(t *testing.T) {
	cases := []struct {
		name       string
		total      int64
		req        PageRequest
		totalPages int
		next       *int
		prev       *int
	}{
		{"empty result", 0, PageRequest{Page: 1, Limit: 10}, 0, nil, nil},
		{"single partial page", 7, PageRequest{Page: 1, Limit: 10}, 1, nil, nil},
		{"exact single page", 10, PageRequest{Page: 1, Limit: 10}, 1, nil, nil},
		{"first of many", 25, PageRequest{Page: 1, Limit: 10}, 3, intPtr(2), nil},
		{"middle", 25, PageRequest{Page: 2, Limit: 10}, 3, intPtr(3), intPtr(1)},
		{"last partial", 25, PageRequest{Page: 3, Limit: 10}, 3, nil, intPtr(2)},
		{"overshoot clamps prev", 25, PageRequest{Page: 9, Limit: 10}, 3, nil, intPtr(3)},
		{"overshoot on empty", 0, PageRequest{Page: 4, Limit: 10}, 0, nil, intPtr(1)},
		{"defaults applied", 11, PageRequest{}, 2, intPtr(2), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewPageMeta(tc.total, tc.req)
			assert.Equal(t, tc.totalPages, meta.TotalPages)
			assert.Equal(t, tc.next, meta.Next)
			assert.Equal(t, tc.prev, meta.Prev)
			assert.Equal(t, tc.total, meta.Total)
		})
	}
}

func TestNewPageNeverReturnsNilItems(t *testing.T) {
	page := NewPage[string](nil, 0, PageRequest{})
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("ASC"))
	assert.Equal(t, SortDesc, ParseSortOrder(""))
	assert.Equal(t, SortDesc, ParseSortOrder("sideways"))
}
