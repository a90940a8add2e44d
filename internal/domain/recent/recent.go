package recent

import (
	"strings"
	"unicode/utf8"
)

// Log limits.
const (
	// MaxEntries is the number of past queries kept per session.
	MaxEntries = 5
	// MinTermLength is the shortest query (in runes) worth remembering.
	MinTermLength = 2
)

// Log is a bounded most-recently-used list of past queries, newest first.
type Log struct {
	terms []string
}

// New builds a log from stored terms, dropping blanks and duplicates and
// truncating to MaxEntries. The first occurrence of a term wins.
func New(terms []string) Log {
	l := Log{terms: make([]string, 0, MaxEntries)}
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		l.terms = append(l.terms, t)
		if len(l.terms) == MaxEntries {
			break
		}
	}
	return l
}

// Terms returns a copy of the stored queries, newest first.
func (l Log) Terms() []string {
	out := make([]string, len(l.terms))
	copy(out, l.terms)
	return out
}

// Len returns the number of stored queries.
func (l Log) Len() int { return len(l.terms) }

// Add returns a log with term moved (or inserted) at the front.
// The second return value is false when the term was too short and nothing changed.
func (l Log) Add(term string) (Log, bool) {
	term = strings.TrimSpace(term)
	if !Worth(term) {
		return l, false
	}
	next := make([]string, 0, MaxEntries)
	next = append(next, term)
	for _, t := range l.terms {
		if t == term {
			continue
		}
		if len(next) == MaxEntries {
			break
		}
		next = append(next, t)
	}
	return Log{terms: next}, true
}

// Worth reports whether a committed query is long enough to remember.
func Worth(term string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(term)) >= MinTermLength
}
