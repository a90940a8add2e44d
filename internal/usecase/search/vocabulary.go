package search

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/result"
)

// minTitleWordLength excludes short title words ("a", "of", "ui") from the vocabulary.
const minTitleWordLength = 3

// Vocabulary is the deduplicated set of searchable terms of a collection, in
// first-insertion order: per item, title words, then technologies, then the category.
type Vocabulary struct {
	terms []string
}

// NewVocabulary extracts the terms of items.
func NewVocabulary(items []item.Item) Vocabulary {
	seen := make(map[string]struct{})
	var terms []string
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}

	for _, it := range items {
		for _, w := range strings.Fields(strings.ToLower(it.Title())) {
			if utf8.RuneCountInString(w) >= minTitleWordLength {
				add(w)
			}
		}
		for i := 0; i < it.TechnologyCount(); i++ {
			add(strings.ToLower(it.Technology(i)))
		}
		add(strings.ToLower(it.Category()))
	}
	return Vocabulary{terms: terms}
}

// Len returns the number of distinct terms.
func (v Vocabulary) Len() int { return len(v.terms) }

// Suggest returns up to result.MaxSuggestions terms that contain q and differ from it.
// q must already be lowercased and trimmed; an empty q suggests nothing.
func (v Vocabulary) Suggest(q string) []string {
	out := []string{}
	if q == "" {
		return out
	}
	for _, t := range v.terms {
		if t == q || !strings.Contains(t, q) {
			continue
		}
		out = append(out, t)
		if len(out) == result.MaxSuggestions {
			break
		}
	}
	return out
}
