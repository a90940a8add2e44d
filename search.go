package folio

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/search/query"
	searchuc "github.com/kailas-cloud/folio/internal/usecase/search"
)

// SearchService ranks the items of one collection.
type SearchService struct {
	kind Kind
	svc  *searchuc.Service
}

// SearchOptions configures a search.
type SearchOptions struct {
	// Category restricts results to one category (exact match). Empty means all.
	Category string
	// Limit caps the number of returned results; 0 means no cap.
	// Stats.TotalResults still counts every match.
	Limit int
}

// Query ranks the collection against text. A blank text with no category
// returns every item in collection order.
func (s *SearchService) Query(
	ctx context.Context, text string, opts *SearchOptions,
) ([]SearchResult, SearchStats, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	kind, err := s.kind.internal()
	if err != nil {
		return nil, SearchStats{}, err
	}
	q, err := query.New(text, opts.Category)
	if err != nil {
		return nil, SearchStats{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	out, err := s.svc.Search(ctx, kind, q)
	if err != nil {
		return nil, SearchStats{}, fmt.Errorf("search: %w", err)
	}
	results, stats := fromInternalOutcome(out)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, stats, nil
}
