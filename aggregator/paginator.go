package aggregator

import (
	"context"
	"errors"
	"fmt"
)

// Pagination limits
const (
	DefaultPageSize = PageSize(1000) // Default records per request
	MaxPageSize     = PageSize(1000) // Gateway cap on first
)

// Pagination validation errors
var (
	ErrPageSizeNotPositive = errors.New("page size must be positive")
	ErrPageSizeTooLarge    = errors.New("page size exceeds maximum limit")
)

// PageSize is the number of records requested per page
type PageSize int

// ParsePageSize creates a PageSize with domain validation. Zero means default.
func ParsePageSize(n int) (PageSize, error) {
	switch {
	case n == 0:
		return DefaultPageSize, nil
	case n < 0:
		return 0, ErrPageSizeNotPositive
	case PageSize(n) > MaxPageSize:
		return 0, fmt.Errorf("%w: must be between 1 and %d", ErrPageSizeTooLarge, MaxPageSize)
	}
	return PageSize(n), nil
}

// Int returns the underlying int value
func (p PageSize) Int() int {
	return int(p)
}

// Page is one first/skip window
type Page struct {
	First int
	Skip  int
}

// Variables returns the window as query variables
func (p Page) Variables() map[string]any {
	return map[string]any{"first": p.First, "skip": p.Skip}
}

// PageFunc fetches a single page
type PageFunc[T any] func(ctx context.Context, page Page) ([]T, error)

// Walk requests pages until one comes back short, or until limit records were
// seen when limit is positive. Skip advances by exactly size per request.
// visit receives every batch. On failure the records already visited stay
// visited and the count so far is returned with the error.
func Walk[T any](ctx context.Context, fetch PageFunc[T], size PageSize, limit int, visit func([]T)) (int, error) {
	if size <= 0 {
		size = DefaultPageSize
	}

	var seen int
	for skip := 0; ; skip += size.Int() {
		if err := ctx.Err(); err != nil {
			return seen, fmt.Errorf("%w: %w", ErrPageFetchFailed, err)
		}

		first := size.Int()
		if limit > 0 {
			first = min(first, limit-seen)
		}

		batch, err := fetch(ctx, Page{First: first, Skip: skip})
		if err != nil {
			return seen, fmt.Errorf("%w: skip %d: %w", ErrPageFetchFailed, skip, err)
		}
		if len(batch) > first {
			batch = batch[:first]
		}

		seen += len(batch)
		visit(batch)

		if len(batch) < first || (limit > 0 && seen >= limit) {
			return seen, nil
		}
	}
}

// FetchAll collects every record Walk visits. Partial results are returned alongside an error.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T], size PageSize, limit int) ([]T, error) {
	var all []T
	_, err := Walk(ctx, fetch, size, limit, func(batch []T) {
		all = append(all, batch...)
	})
	return all, err
}

// CountDistinct counts unique keys across all pages, so a record that shows up
// on two pages of an unstable ordering is counted once.
func CountDistinct[T any](ctx context.Context, fetch PageFunc[T], size PageSize, key func(T) string) (int, error) {
	seen := make(map[string]struct{})
	_, err := Walk(ctx, fetch, size, 0, func(batch []T) {
		for _, item := range batch {
			seen[key(item)] = struct{}{}
		}
	})
	return len(seen), err
}

