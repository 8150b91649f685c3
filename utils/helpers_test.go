package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNameInKebabCase(t *testing.T) {
	name := FileNameInKebabCase("My Cool Bag.png")

	assert.True(t, strings.HasPrefix(name, "my-cool-bag-"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotContains(t, name, " ")
}

func TestFileNameInKebabCaseIsCollisionResistant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := FileNameInKebabCase("photo.jpg")
		require.False(t, seen[name], "duplicate generated name %q", name)
		seen[name] = true
	}
}

func TestFileNameInKebabCaseNoExtension(t *testing.T) {
	name := FileNameInKebabCase("README")
	assert.True(t, strings.HasPrefix(name, "readme-"))
	assert.NotContains(t, name, ".")
}

func TestNewPaginationFirstPage(t *testing.T) {
	p := NewPagination(25, 1, 10)

	assert.Equal(t, int64(25), p.TotalItems)
	assert.Equal(t, 3, p.TotalPages)
	require.NotNil(t, p.NextPage)
	assert.Equal(t, 2, *p.NextPage)
	assert.Nil(t, p.PrevPage)
	assert.Equal(t, 1, p.CurrentPage)
}

func TestNewPaginationLastPage(t *testing.T) {
	p := NewPagination(25, 3, 10)

	assert.Nil(t, p.NextPage)
	require.NotNil(t, p.PrevPage)
	assert.Equal(t, 2, *p.PrevPage)
	assert.Equal(t, 3, p.CurrentPage)
}

func TestNewPaginationSinglePage(t *testing.T) {
	p := NewPagination(5, 1, 10)

	assert.Equal(t, 1, p.TotalPages)
	assert.Nil(t, p.NextPage)
	assert.Nil(t, p.PrevPage)
}

func TestNewPaginationDefaultsInvalidInput(t *testing.T) {
	p := NewPagination(25, 0, -1)

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 10, p.PerPage)
}

func TestParsePageLimit(t *testing.T) {
	page, limit := ParsePageLimit("3", "20")
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)

	page, limit = ParsePageLimit("", "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = ParsePageLimit("-2", "abc")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}
