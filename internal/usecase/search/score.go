package search

import (
	"strings"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/field"
)

// Field weights. Contributions are cumulative across rules.
const (
	weightTitleExact     = 100
	weightTitleSubstring = 80
	weightTitleWord      = 60
	weightDescription    = 40
	weightTechExact      = 70
	weightTechSubstring  = 50
	weightCategory       = 30
	weightCode           = 60
	weightFuzzyTitle     = 20

	// categoryOnlyScore is the nominal score of an item listed by category filter alone.
	categoryOnlyScore = 1
)

// Score computes the relevance of it for an already lowercased, trimmed query
// and records the fields that contributed. An empty query scores 0.
//
// The exact-word title bonus stacks on top of the substring bonus, so a title
// equal to the query collects 100 + 60 (+20 fuzzy).
func Score(it item.Item, q string) (float64, field.Set) {
	var (
		score   float64
		matched field.Set
	)
	if q == "" {
		return 0, matched
	}

	title := strings.ToLower(it.Title())
	if title == q {
		score += weightTitleExact
		matched = matched.Add(field.Title)
	} else if strings.Contains(title, q) {
		score += weightTitleSubstring
		matched = matched.Add(field.Title)
	}

	for _, w := range strings.Fields(title) {
		if w == q {
			score += weightTitleWord
			matched = matched.Add(field.Title)
			break
		}
	}

	if strings.Contains(strings.ToLower(it.Description()), q) {
		score += weightDescription
		matched = matched.Add(field.Description)
	}

	if w := technologyWeight(it, q); w > 0 {
		score += w
		matched = matched.Add(field.Technologies)
	}

	if strings.Contains(strings.ToLower(it.Category()), q) {
		score += weightCategory
		matched = matched.Add(field.Category)
	}

	if code := it.Code(); code != "" && strings.Contains(strings.ToLower(code), q) {
		score += weightCode
		matched = matched.Add(field.Code)
	}

	if Similarity(q, title) > fuzzyThreshold {
		score += weightFuzzyTitle
		matched = matched.Add(field.Title)
	}

	return score, matched
}

// technologyWeight returns the exact-match weight if any technology equals q,
// else the substring weight if any contains it, else 0.
func technologyWeight(it item.Item, q string) float64 {
	var w float64
	for i := 0; i < it.TechnologyCount(); i++ {
		t := strings.ToLower(it.Technology(i))
		if t == q {
			return weightTechExact
		}
		if w == 0 && strings.Contains(t, q) {
			w = weightTechSubstring
		}
	}
	return w
}
