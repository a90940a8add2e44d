package search

import (
	"sort"
	"time"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/field"
	"github.com/kailas-cloud/folio/internal/domain/search/query"
	"github.com/kailas-cloud/folio/internal/domain/search/result"
)

// Index is an immutable snapshot of one collection with its vocabulary.
// It is safe for concurrent use.
type Index struct {
	items   []item.Item
	vocab   Vocabulary
	version uint64
}

// NewIndex snapshots items. The slice is copied; callers may reuse it.
func NewIndex(items []item.Item, version uint64) *Index {
	snap := make([]item.Item, len(items))
	copy(snap, items)
	return &Index{items: snap, vocab: NewVocabulary(snap), version: version}
}

// Len returns the number of items in the snapshot.
func (x *Index) Len() int { return len(x.items) }

// Version returns the snapshot version the index was built from.
func (x *Index) Version() uint64 { return x.version }

// Items returns a copy of the snapshot in collection order.
func (x *Index) Items() []item.Item {
	out := make([]item.Item, len(x.items))
	copy(out, x.items)
	return out
}

// Categories returns distinct categories in first-seen order.
func (x *Index) Categories() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, it := range x.items {
		c := it.Category()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Search ranks the snapshot against q.
//
// A blank text with no category returns every item in collection order without
// scoring. Otherwise items outside the category filter are dropped, the rest are
// scored, non-matches removed, and the remainder stable-sorted by descending score.
func (x *Index) Search(q query.Query) result.Outcome {
	start := time.Now()

	if q.IsEmpty() {
		matches := make([]result.Match, len(x.items))
		for i, it := range x.items {
			matches[i] = result.NewMatch(it, 0, 0)
		}
		return result.Outcome{
			Matches: matches,
			Stats:   result.Stats{TotalResults: len(matches), Suggestions: []string{}},
		}
	}

	term := q.Normalized()
	suggestions := x.vocab.Suggest(term)

	matches := make([]result.Match, 0, len(x.items))
	for _, it := range x.items {
		if q.HasCategory() && it.Category() != q.Category() {
			continue
		}
		if term == "" {
			matches = append(matches, result.NewMatch(it, categoryOnlyScore, field.Of(field.Category)))
			continue
		}
		score, matched := Score(it, term)
		if score > 0 {
			matches = append(matches, result.NewMatch(it, score, matched))
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score() > matches[j].Score()
	})

	return result.Outcome{
		Matches: matches,
		Stats: result.Stats{
			TotalResults: len(matches),
			SearchTime:   time.Since(start),
			Suggestions:  suggestions,
		},
	}
}

// Search ranks items against text and category without keeping an index.
// The vocabulary is rebuilt on every call; use an Index for repeated searches.
// It never fails: length limits belong to the callers that take user input.
func Search(items []item.Item, text, category string) result.Outcome {
	return NewIndex(items, 0).Search(query.From(text, category))
}
