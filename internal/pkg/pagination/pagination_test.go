package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	first := Slice(items, 1, 12)
	assert.Len(t, first.Items, 12)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := Slice(items, 3, 12)
	assert.Equal(t, []int{24, 25, 26, 27, 28, 29}, last.Items)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)
	assert.Equal(t, int64(30), last.Total)

	beyond := Slice(items, 9, 12)
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
}

func TestNormalize(t *testing.T) {
	p, s := Normalize(0, 0, 20)
	assert.Equal(t, 1, p)
	assert.Equal(t, 20, s)

	_, s = Normalize(2, 500, 20)
	assert.Equal(t, MaxPageSize, s)
}
