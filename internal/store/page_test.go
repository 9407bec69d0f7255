package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagedResult(t *testing.T) {
	tests := []struct {
		name        string
		totalCount  int
		currentPage int
		pageSize    int
		wantPages   int
		wantNext    bool
		wantPrev    bool
	}{
		{
			name:       "middle page has both neighbours",
			totalCount: 45, currentPage: 2, pageSize: 10,
			wantPages: 5, wantNext: true, wantPrev: true,
		},
		{
			name:       "first page has no previous",
			totalCount: 45, currentPage: 1, pageSize: 10,
			wantPages: 5, wantNext: true, wantPrev: false,
		},
		{
			name:       "last page has no next",
			totalCount: 45, currentPage: 5, pageSize: 10,
			wantPages: 5, wantNext: false, wantPrev: true,
		},
		{
			name:       "partial final page counts as a page",
			totalCount: 11, currentPage: 1, pageSize: 10,
			wantPages: 2, wantNext: true, wantPrev: false,
		},
		{
			name:       "empty result set",
			totalCount: 0, currentPage: 1, pageSize: 10,
			wantPages: 0, wantNext: false, wantPrev: false,
		},
		{
			name:       "single full page",
			totalCount: 10, currentPage: 1, pageSize: 10,
			wantPages: 1, wantNext: false, wantPrev: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, 0)
			got := NewPagedResult(items, tt.totalCount, tt.currentPage, tt.pageSize)

			assert.Equal(t, tt.totalCount, got.TotalCount)
			assert.Equal(t, tt.currentPage, got.CurrentPage)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantNext, got.HasNextPage)
			assert.Equal(t, tt.wantPrev, got.HasPreviousPage)
		})
	}

	t.Run("non-positive page size is clamped", func(t *testing.T) {
		got := NewPagedResult([]string{"a"}, 1, 1, 0)
		assert.Equal(t, 1, got.PageSize)
		assert.Equal(t, 1, got.TotalPages)
	})
}
