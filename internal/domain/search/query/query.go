package query

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxLength is the maximum query text length in runes.
const MaxLength = 256

// Query is a free-text search plus an optional category filter.
type Query struct {
	text     string
	category string
}

// New validates a query. Blank text and an empty category are both allowed.
func New(text, category string) (Query, error) {
	if utf8.RuneCountInString(text) > MaxLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxLength)
	}
	if !utf8.ValidString(text) {
		return Query{}, fmt.Errorf("query is not valid UTF-8")
	}
	return Query{text: text, category: category}, nil
}

// From builds a query without length or encoding checks. Boundaries that accept
// user input use New; the ranking engine accepts any text.
func From(text, category string) Query {
	return Query{text: text, category: category}
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// Category returns the category filter; empty means no filter.
func (q Query) Category() string { return q.category }

// Normalized returns the trimmed, lowercased text used for matching.
func (q Query) Normalized() string { return strings.ToLower(strings.TrimSpace(q.text)) }

// IsBlank reports whether the text is empty or whitespace only.
func (q Query) IsBlank() bool { return strings.TrimSpace(q.text) == "" }

// HasCategory reports whether a category filter is active.
func (q Query) HasCategory() bool { return q.category != "" }

// IsEmpty reports whether the query selects the whole collection unranked.
func (q Query) IsEmpty() bool { return q.IsBlank() && !q.HasCategory() }
