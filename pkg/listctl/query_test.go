package listctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		page     int
		want     PaginationView
	}{
		{name: "empty list has one page", total: 0, pageSize: 10, page: 1, want: PaginationView{TotalPages: 1}},
		{name: "partial last page", total: 23, pageSize: 10, page: 3, want: PaginationView{TotalPages: 3, StartItem: 21, EndItem: 23}},
		{name: "first page", total: 23, pageSize: 10, page: 1, want: PaginationView{TotalPages: 3, StartItem: 1, EndItem: 10}},
		{name: "exact multiple", total: 20, pageSize: 10, page: 2, want: PaginationView{TotalPages: 2, StartItem: 11, EndItem: 20}},
		{name: "page past the end", total: 20, pageSize: 10, page: 5, want: PaginationView{TotalPages: 2}},
		{name: "zero page size treated as one", total: 3, pageSize: 0, page: 2, want: PaginationView{TotalPages: 3, StartItem: 2, EndItem: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.total, tt.pageSize, tt.page))
		})
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, clampPage(0, 3))
	assert.Equal(t, 1, clampPage(-4, 3))
	assert.Equal(t, 3, clampPage(9, 3))
	assert.Equal(t, 2, clampPage(2, 3))
	assert.Equal(t, 1, clampPage(2, 0))
}

func TestQuery_CloneDoesNotShareFilters(t *testing.T) {
	q := Query{Filters: map[string]string{"status": "active"}, Page: 2, PageSize: 10}
	clone := q.Clone()
	clone.Filters["status"] = "closed"

	assert.Equal(t, "active", q.Filters["status"])
	assert.False(t, q.Equal(clone))
	assert.Equal(t, 10, q.Offset())
	assert.NotNil(t, Query{}.Clone().Filters)
}
