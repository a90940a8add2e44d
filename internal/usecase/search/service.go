package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/query"
	"github.com/kailas-cloud/folio/internal/domain/search/result"
	"github.com/kailas-cloud/folio/internal/metrics"
)

// Service runs searches against the current snapshot.
type Service struct {
	snap   *Snapshot
	logger *zap.Logger
}

// New creates a search service.
func New(snap *Snapshot, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{snap: snap, logger: logger}
}

// Search ranks the collection of kind against q.
func (s *Service) Search(ctx context.Context, kind item.Kind, q query.Query) (result.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return result.Outcome{}, fmt.Errorf("search: %w", err)
	}
	idx, err := s.snap.Index(kind)
	if err != nil {
		return result.Outcome{}, err
	}

	start := time.Now()
	out := idx.Search(q)
	elapsed := time.Since(start)

	path := "ranked"
	if q.IsEmpty() {
		path = "all"
	}
	k := string(kind)
	metrics.SearchRequestsTotal.WithLabelValues(k, path).Inc()
	metrics.SearchDuration.WithLabelValues(k).Observe(elapsed.Seconds())
	metrics.SearchResults.WithLabelValues(k).Observe(float64(out.Stats.TotalResults))
	if !q.IsEmpty() && out.Stats.TotalResults == 0 {
		metrics.SearchZeroResultsTotal.WithLabelValues(k).Inc()
	}

	s.logger.Debug("search",
		zap.String("kind", k),
		zap.Int("query_len", len(q.Text())),
		zap.Bool("category", q.HasCategory()),
		zap.Int("results", out.Stats.TotalResults),
		zap.Duration("elapsed", elapsed),
		zap.Uint64("version", idx.Version()),
	)
	return out, nil
}

// Categories returns the distinct categories of kind in first-seen order.
func (s *Service) Categories(_ context.Context, kind item.Kind) ([]string, error) {
	idx, err := s.snap.Index(kind)
	if err != nil {
		return nil, err
	}
	return idx.Categories(), nil
}

// Items returns the current snapshot of kind in collection order.
func (s *Service) Items(_ context.Context, kind item.Kind) ([]item.Item, error) {
	idx, err := s.snap.Index(kind)
	if err != nil {
		return nil, err
	}
	return idx.Items(), nil
}
