package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liangxing/matchsite/backend/content"
	"github.com/liangxing/matchsite/backend/directory"
)

func TestGenerateMembers(t *testing.T) {
	seed, err := content.LoadMembers()
	require.NoError(t, err)

	a := generateMembers(rand.New(rand.NewSource(7)), 7, 50, seed)
	b := generateMembers(rand.New(rand.NewSource(7)), 7, 50, seed)
	require.Len(t, a, 50)
	assert.Equal(t, a, b, "same seed must give the same members")

	t.Run("Every member passes the default criteria", func(t *testing.T) {
		all := append(append([]directory.Candidate{}, seed...), a...)
		require.NoError(t, content.ValidateMembers(all))
		assert.Len(t, directory.Filter(all, directory.DefaultCriteria()), len(all))
	})

	t.Run("Categorical values come from the option lists", func(t *testing.T) {
		for _, c := range a {
			assert.Contains(t, directory.Educations, c.Education)
			assert.Contains(t, directory.Incomes, c.Income)
			assert.Contains(t, directory.Locations, c.Location)
			assert.NotEmpty(t, c.ImageURL)
		}
	})

	t.Run("Ids are consecutive", func(t *testing.T) {
		for i, c := range a {
			assert.Equal(t, 7+i, c.ID)
		}
	})
}
