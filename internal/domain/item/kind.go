package item

// Kind names one of the two catalog collections.
type Kind string

// Catalog collections.
const (
	Project Kind = "project"
	Post    Kind = "post"
)

// Kinds lists every collection in a fixed order.
func Kinds() []Kind { return []Kind{Project, Post} }

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Project || k == Post
}

// ParseKind maps a URL path segment (plural or singular) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "projects", "project":
		return Project, true
	case "posts", "post", "blog":
		return Post, true
	default:
		return "", false
	}
}

// Op is a catalog mutation type.
type Op string

// Mutation types.
const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent announces a catalog mutation on the changes channel.
type ChangeEvent struct {
	Kind Kind   `json:"kind"`
	Op   Op     `json:"op"`
	ID   string `json:"id"`
}
