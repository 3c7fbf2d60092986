package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		assert.NoError(t, Params{PerPage: 1, Page: 1}.Validate())
		assert.NoError(t, Params{PerPage: 100, Page: 42}.Validate())
	})

	t.Run("per_page below minimum", func(t *testing.T) {
		err := Params{PerPage: 0, Page: 1}.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPerPageOutOfRange)
	})

	t.Run("per_page above maximum", func(t *testing.T) {
		err := Params{PerPage: 101, Page: 1}.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPerPageOutOfRange)
	})

	t.Run("page below one", func(t *testing.T) {
		err := Params{PerPage: 25, Page: 0}.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPageOutOfRange)
	})
}

func TestParams_LimitOffset(t *testing.T) {
	limit, offset := Params{PerPage: 25, Page: 1}.LimitOffset()
	assert.Equal(t, 25, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Params{PerPage: 10, Page: 3}.LimitOffset()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)
}

func TestParseSortBy(t *testing.T) {
	cases := map[string]SortBy{
		"":                SortCreatedAtDesc,
		"created-at-desc": SortCreatedAtDesc,
		"created-at-asc":  SortCreatedAtAsc,
		"updated-at-desc": SortUpdatedAtDesc,
		"updated-at-asc":  SortUpdatedAtAsc,
		"random":          SortRandom,
	}
	for in, want := range cases {
		got, err := ParseSortBy(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseSortBy("newest")
	assert.Error(t, err)
}

func TestSortBy_OrderBy(t *testing.T) {
	assert.Equal(t, "created_at DESC", SortCreatedAtDesc.OrderBy("created_at"))
	assert.Equal(t, "created_at ASC", SortCreatedAtAsc.OrderBy("created_at"))
	assert.Equal(t, "updated_at DESC", SortUpdatedAtDesc.OrderBy("created_at"))
	assert.Equal(t, "updated_at ASC", SortUpdatedAtAsc.OrderBy("created_at"))
	assert.Equal(t, "RANDOM()", SortRandom.OrderBy("created_at"))
	assert.True(t, SortRandom.IsRandom())
	assert.False(t, SortCreatedAtAsc.IsRandom())
	assert.True(t, SortUpdatedAtAsc.IsUpdatedAt())
	assert.False(t, SortRandom.IsUpdatedAt())
}
