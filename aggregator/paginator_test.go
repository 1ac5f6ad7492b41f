package aggregator_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/graphmetrics/aggregator"
)

func TestParsePageSize(t *testing.T) {
	t.Parallel()

	t.Run("when page size is zero", func(t *testing.T) {
		t.Parallel()

		// Act
		size, err := aggregator.ParsePageSize(0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, aggregator.DefaultPageSize, size)
	})

	t.Run("when page size is within range", func(t *testing.T) {
		t.Parallel()

		// Act
		size, err := aggregator.ParsePageSize(250)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 250, size.Int())
	})

	t.Run("when page size is out of range", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name     string
			input    int
			expected error
		}{
			{name: "negative", input: -1, expected: aggregator.ErrPageSizeNotPositive},
			{name: "above gateway cap", input: 1001, expected: aggregator.ErrPageSizeTooLarge},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				// Act
				_, err := aggregator.ParsePageSize(tc.input)

				// Assert
				assert.ErrorIs(t, err, tc.expected)
			})
		}
	})
}

func TestFetchAll(t *testing.T) {
	t.Parallel()

	t.Run("it collects every record across pages", func(t *testing.T) {
		t.Parallel()

		// Arrange
		source := numbers(7)
		fetch, pages := sliceSource(source)

		// Act
		all, err := aggregator.FetchAll(t.Context(), fetch, 3, 0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, source, all)
		assert.Equal(t, []aggregator.Page{{First: 3, Skip: 0}, {First: 3, Skip: 3}, {First: 3, Skip: 6}}, *pages)
	})

	t.Run("it stops on an empty page when the data set is a multiple of the page size", func(t *testing.T) {
		t.Parallel()

		// Arrange
		fetch, pages := sliceSource(numbers(4))

		// Act
		all, err := aggregator.FetchAll(t.Context(), fetch, 2, 0)

		// Assert
		require.NoError(t, err)
		assert.Len(t, all, 4)
		assert.Len(t, *pages, 3, "Expected ceil(4/2)+1 requests")
	})

	t.Run("it returns nothing for an empty data set", func(t *testing.T) {
		t.Parallel()

		// Arrange
		fetch, pages := sliceSource[int](nil)

		// Act
		all, err := aggregator.FetchAll(t.Context(), fetch, 1000, 0)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.Len(t, *pages, 1)
	})

	t.Run("it never returns more than the limit", func(t *testing.T) {
		t.Parallel()

		// Arrange
		fetch, pages := sliceSource(numbers(10))

		// Act
		all, err := aggregator.FetchAll(t.Context(), fetch, 4, 6)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, numbers(6), all)
		assert.Equal(t, []aggregator.Page{{First: 4, Skip: 0}, {First: 2, Skip: 4}}, *pages)
	})

	t.Run("it never returns more than the backing data holds", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			size  aggregator.PageSize
			total int
		}{
			{size: 1, total: 5},
			{size: 5, total: 5},
			{size: 1000, total: 2500},
			{size: 7, total: 0},
		}

		for _, tc := range testCases {
			t.Run(fmt.Sprintf("%d records in pages of %d", tc.total, tc.size), func(t *testing.T) {
				t.Parallel()

				// Arrange
				fetch, pages := sliceSource(numbers(tc.total))

				// Act
				all, err := aggregator.FetchAll(t.Context(), fetch, tc.size, 0)

				// Assert
				require.NoError(t, err)
				assert.Len(t, all, tc.total)
				assert.LessOrEqual(t, len(*pages), tc.total/tc.size.Int()+1)
			})
		}
	})

	t.Run("it returns partial results when a page fails", func(t *testing.T) {
		t.Parallel()

		// Arrange
		errBoom := errors.New("boom")
		source := numbers(10)
		fetch := func(_ context.Context, p aggregator.Page) ([]int, error) {
			if p.Skip >= 4 {
				return nil, errBoom
			}
			return source[p.Skip : p.Skip+p.First], nil
		}

		// Act
		all, err := aggregator.FetchAll(t.Context(), fetch, 2, 0)

		// Assert
		require.ErrorIs(t, err, aggregator.ErrPageFetchFailed)
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, numbers(4), all)
	})

	t.Run("it halts when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// Arrange
		ctx, cancel := context.WithCancel(t.Context())
		fetch := func(_ context.Context, p aggregator.Page) ([]int, error) {
			cancel()
			return numbers(p.First), nil
		}

		// Act
		all, err := aggregator.FetchAll(ctx, fetch, 2, 0)

		// Assert
		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, all, 2)
	})
}

func TestCountDistinct(t *testing.T) {
	t.Parallel()

	t.Run("it returns zero for no results", func(t *testing.T) {
		t.Parallel()

		// Arrange
		fetch, _ := sliceSource[string](nil)

		// Act
		count, err := aggregator.CountDistinct(t.Context(), fetch, 10, identity)

		// Assert
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("it terminates on the first undersized page", func(t *testing.T) {
		t.Parallel()

		// Arrange
		fetch, pages := sliceSource([]string{"a", "b", "c", "d", "e"})

		// Act
		count, err := aggregator.CountDistinct(t.Context(), fetch, 2, identity)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 5, count)
		assert.Len(t, *pages, 3)
	})

	t.Run("it does not double count records repeated across unstable pages", func(t *testing.T) {
		t.Parallel()

		// Arrange
		pages := [][]string{{"a", "b", "c"}, {"c", "a", "d"}, {"e"}}
		fetch := func(_ context.Context, p aggregator.Page) ([]string, error) {
			return pages[p.Skip/3], nil
		}

		// Act
		count, err := aggregator.CountDistinct(t.Context(), fetch, 3, identity)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})
}

// sliceSource serves items in first/skip windows and records the pages requested
func sliceSource[T any](items []T) (aggregator.PageFunc[T], *[]aggregator.Page) {
	var pages []aggregator.Page
	fetch := func(_ context.Context, p aggregator.Page) ([]T, error) {
		pages = append(pages, p)
		if p.Skip >= len(items) {
			return nil, nil
		}
		return items[p.Skip:min(len(items), p.Skip+p.First)], nil
	}
	return fetch, &pages
}

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func identity(s string) string { return s }
