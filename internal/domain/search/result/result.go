package result

import (
	"time"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/field"
)

// MaxSuggestions caps the number of suggested terms per search.
const MaxSuggestions = 5

// Match is a single ranked hit.
type Match struct {
	item    item.Item
	score   float64
	matched field.Set
}

// NewMatch creates a ranked hit.
func NewMatch(it item.Item, score float64, matched field.Set) Match {
	return Match{item: it, score: score, matched: matched}
}

// Item returns the matched catalog entry.
func (m *Match) Item() item.Item { return m.item }

// Score returns the relevance score.
func (m *Match) Score() float64 { return m.score }

// Matched returns the fields that contributed to the score.
func (m *Match) Matched() field.Set { return m.matched }

// Stats summarizes one search run.
type Stats struct {
	TotalResults int
	SearchTime   time.Duration
	Suggestions  []string
}

// SearchTimeMillis returns the elapsed time rounded to whole milliseconds.
func (s Stats) SearchTimeMillis() int64 {
	if s.SearchTime <= 0 {
		return 0
	}
	return s.SearchTime.Round(time.Millisecond).Milliseconds()
}

// Outcome is the ranked list plus stats of one search run.
type Outcome struct {
	Matches []Match
	Stats   Stats
}

// Items projects the ranked matches to their items.
func (o Outcome) Items() []item.Item {
	out := make([]item.Item, len(o.Matches))
	for i := range o.Matches {
		out[i] = o.Matches[i].Item()
	}
	return out
}
