package folio

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/result"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrInvalidItem      = domain.ErrInvalidItem
	ErrInvalidQuery     = domain.ErrInvalidQuery
	ErrInvalidKind      = domain.ErrInvalidKind
	ErrSnapshotNotReady = domain.ErrSnapshotNotReady
)

// Kind names a catalog collection.
type Kind string

// Collections.
const (
	Projects Kind = "projects"
	Posts    Kind = "posts"
)

func (k Kind) internal() (item.Kind, error) {
	ik, ok := item.ParseKind(string(k))
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKind, k)
	}
	return ik, nil
}

// Item is a project or blog post. For posts, Technologies holds the tags.
type Item struct {
	ID           string
	Title        string
	Description  string
	Technologies []string
	Category     string
	Code         string
	Featured     bool
	URL          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchResult is one ranked item.
type SearchResult struct {
	Item          Item
	Score         float64
	MatchedFields []string
}

// SearchStats summarizes a search.
type SearchStats struct {
	TotalResults int
	SearchTime   time.Duration
	Suggestions  []string
}

// SeedStats counts the outcome of Client.Seed.
type SeedStats struct {
	Created int
	Updated int
	Failed  int
}

func (it Item) fields() item.Fields {
	return item.Fields{
		Title:        it.Title,
		Description:  it.Description,
		Technologies: it.Technologies,
		Category:     it.Category,
		Code:         it.Code,
		Featured:     it.Featured,
		URL:          it.URL,
	}
}

func fromInternalItem(it item.Item) Item {
	return Item{
		ID:           it.ID(),
		Title:        it.Title(),
		Description:  it.Description(),
		Technologies: it.Technologies(),
		Category:     it.Category(),
		Code:         it.Code(),
		Featured:     it.Featured(),
		URL:          it.URL(),
		CreatedAt:    it.CreatedAt(),
		UpdatedAt:    it.UpdatedAt(),
	}
}

func fromInternalOutcome(out result.Outcome) ([]SearchResult, SearchStats) {
	results := make([]SearchResult, len(out.Matches))
	for i := range out.Matches {
		m := &out.Matches[i]
		results[i] = SearchResult{
			Item:          fromInternalItem(m.Item()),
			Score:         m.Score(),
			MatchedFields: m.Matched().Names(),
		}
	}
	return results, SearchStats{
		TotalResults: out.Stats.TotalResults,
		SearchTime:   out.Stats.SearchTime,
		Suggestions:  out.Stats.Suggestions,
	}
}
