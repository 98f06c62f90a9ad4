package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	p := &PaginationParams{}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = &PaginationParams{Page: 3, PageSize: 500}
	p.Validate()
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 10, 25)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	last := NewPagination(3, 10, 25)
	assert.False(t, last.HasNext)
}

func TestNewPaginatedResult_NilItems(t *testing.T) {
	res := NewPaginatedResult[int](nil, NewPagination(1, 10, 0))
	assert.NotNil(t, res.Items)
	assert.Len(t, res.Items, 0)
}
