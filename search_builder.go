package folio

import (
	"context"
	"fmt"
)

// Hit is a typed search result.
type Hit[T any] struct {
	Item          T
	Score         float64
	MatchedFields []string
}

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]

	query    string
	category string
	limit    int
}

// Query sets the free-text query.
func (b *SearchBuilder[T]) Query(q string) *SearchBuilder[T] {
	b.query = q
	return b
}

// Category restricts results to one category.
func (b *SearchBuilder[T]) Category(c string) *SearchBuilder[T] {
	b.category = c
	return b
}

// Limit sets the maximum number of results.
func (b *SearchBuilder[T]) Limit(n int) *SearchBuilder[T] {
	b.limit = n
	return b
}

// Do executes the search and returns typed results with the search stats.
func (b *SearchBuilder[T]) Do(ctx context.Context) ([]Hit[T], SearchStats, error) {
	results, stats, err := b.idx.client.Search(b.idx.kind).Query(ctx, b.query, &SearchOptions{
		Category: b.category,
		Limit:    b.limit,
	})
	if err != nil {
		return nil, SearchStats{}, fmt.Errorf("typed search: %w", err)
	}

	hits := make([]Hit[T], 0, len(results))
	for _, r := range results {
		v, err := b.idx.decode(r.Item)
		if err != nil {
			return nil, SearchStats{}, err
		}
		hits = append(hits, Hit[T]{Item: v, Score: r.Score, MatchedFields: r.MatchedFields})
	}
	return hits, stats, nil
}
