package field

import "strings"

// Field tags an item attribute that contributed to a relevance score.
type Field uint8

// Scored attributes.
const (
	Title Field = 1 << iota
	Description
	Technologies
	Category
	Code
)

var names = []struct {
	f    Field
	name string
}{
	{Title, "title"},
	{Description, "description"},
	{Technologies, "technologies"},
	{Category, "category"},
	{Code, "code"},
}

// String returns the wire name of a single field.
func (f Field) String() string {
	for _, n := range names {
		if n.f == f {
			return n.name
		}
	}
	return "unknown"
}

// Set is an unordered set of matched fields. The zero value is empty.
type Set uint8

// Of builds a set from the given fields.
func Of(fields ...Field) Set {
	var s Set
	for _, f := range fields {
		s = s.Add(f)
	}
	return s
}

// Add returns the set with f included. Adding a present field is a no-op.
func (s Set) Add(f Field) Set { return s | Set(f) }

// Has reports whether f is in the set.
func (s Set) Has(f Field) bool { return s&Set(f) != 0 }

// IsEmpty reports whether no field matched.
func (s Set) IsEmpty() bool { return s == 0 }

// Len returns the number of fields in the set.
func (s Set) Len() int {
	n := 0
	for _, f := range names {
		if s.Has(f.f) {
			n++
		}
	}
	return n
}

// Names returns the field names in declaration order.
func (s Set) Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s.Has(n.f) {
			out = append(out, n.name)
		}
	}
	return out
}

// String joins the field names with commas.
func (s Set) String() string { return strings.Join(s.Names(), ",") }
