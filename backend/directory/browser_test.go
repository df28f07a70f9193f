package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserResetsPageOnChange(t *testing.T) {
	b := NewBrowser(generated(30))
	require.Equal(t, 1, b.Page())

	assert.Equal(t, 3, b.GoTo(3))

	t.Run("criteria change", func(t *testing.T) {
		b.GoTo(4)
		c := DefaultCriteria()
		c.Gender = Male
		require.NoError(t, b.SetCriteria(c))
		assert.Equal(t, 1, b.Page())
		assert.Equal(t, 15, b.View().Total)
	})

	t.Run("collection change", func(t *testing.T) {
		b.GoTo(3)
		b.SetCandidates(generated(8))
		assert.Equal(t, 1, b.Page())
		assert.Equal(t, 4, b.View().Total)
	})

	t.Run("page never points past the last page", func(t *testing.T) {
		b.SetCandidates(generated(30))
		b.GoTo(3)
		c := DefaultCriteria()
		c.Search = "嘉宾1"
		require.NoError(t, b.SetCriteria(c))
		v := b.View()
		assert.Equal(t, 1, v.Page)
		assert.LessOrEqual(t, v.Page, max(1, v.TotalPages))
	})
}

func TestBrowserNavigation(t *testing.T) {
	b := NewBrowser(generated(13))

	assert.Equal(t, 1, b.Prev(), "prev is disabled on the first page")
	assert.Equal(t, 2, b.Next())
	assert.Equal(t, 3, b.Next())
	assert.Equal(t, 3, b.Next(), "next is disabled on the last page")
	assert.Equal(t, []int{13}, ids(b.View().Items))
	assert.Equal(t, 1, b.GoTo(-5))
}

func TestBrowserRejectsInvalidCriteria(t *testing.T) {
	b := NewBrowser(seeded())
	c := DefaultCriteria()
	c.Gender = Female
	require.NoError(t, b.SetCriteria(c))

	bad := DefaultCriteria()
	bad.Age = Range{Min: 50, Max: 20}
	err := b.SetCriteria(bad)
	assert.ErrorIs(t, err, ErrInvalidCriteria)
	assert.Equal(t, Female, b.Criteria().Gender, "previous criteria are kept")
	assert.Equal(t, 3, b.View().Total)
}

func TestBrowserReset(t *testing.T) {
	all := seeded()
	b := NewBrowser(all)
	initial := b.View()

	c := DefaultCriteria()
	c.Search = "宇航员"
	require.NoError(t, b.SetCriteria(c))
	require.True(t, b.View().Empty)

	b.Reset()
	assert.Equal(t, initial, b.View())
	assert.Equal(t, Query(all, DefaultCriteria(), 1), b.View())
	assert.True(t, b.Criteria().IsDefault())
}
