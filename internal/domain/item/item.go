package item

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Field limits.
const (
	MaxIDLength          = 128
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
	MaxTechnologies      = 32
	MaxCategoryLength    = 64
	MaxCodeLength        = 64
)

// Item is a catalog entry (project or blog post). Immutable value object:
// accessors that return slices hand out copies.
type Item struct {
	id           string
	kind         Kind
	title        string
	description  string
	technologies []string
	category     string
	code         string
	featured     bool
	url          string
	createdAt    time.Time
	updatedAt    time.Time
}

// Fields carries the user-editable attributes of an item.
type Fields struct {
	Title        string
	Description  string
	Technologies []string
	Category     string
	Code         string
	Featured     bool
	URL          string
}

// New validates and creates an Item. An empty id is allowed and is filled in on insert.
func New(id string, kind Kind, f Fields) (Item, error) {
	if !kind.IsValid() {
		return Item{}, fmt.Errorf("unknown kind %q", kind)
	}
	if id != "" {
		if len(id) > MaxIDLength {
			return Item{}, fmt.Errorf("item ID too long (max %d)", MaxIDLength)
		}
		if !idRegex.MatchString(id) {
			return Item{}, fmt.Errorf("item ID must be alphanumeric with underscores and hyphens")
		}
	}

	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Item{}, fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return Item{}, fmt.Errorf("title too long (max %d chars)", MaxTitleLength)
	}
	if utf8.RuneCountInString(f.Description) > MaxDescriptionLength {
		return Item{}, fmt.Errorf("description too long (max %d chars)", MaxDescriptionLength)
	}
	if len(f.Technologies) > MaxTechnologies {
		return Item{}, fmt.Errorf("too many technologies (max %d)", MaxTechnologies)
	}
	techs := make([]string, 0, len(f.Technologies))
	for _, t := range f.Technologies {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		techs = append(techs, t)
	}
	category := strings.TrimSpace(f.Category)
	if category == "" {
		return Item{}, fmt.Errorf("category is required")
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return Item{}, fmt.Errorf("category too long (max %d chars)", MaxCategoryLength)
	}
	code := strings.TrimSpace(f.Code)
	if utf8.RuneCountInString(code) > MaxCodeLength {
		return Item{}, fmt.Errorf("code too long (max %d chars)", MaxCodeLength)
	}

	return Item{
		id:           id,
		kind:         kind,
		title:        title,
		description:  f.Description,
		technologies: techs,
		category:     category,
		code:         code,
		featured:     f.Featured,
		url:          strings.TrimSpace(f.URL),
	}, nil
}

// Reconstruct creates an Item without validation (storage hydration).
func Reconstruct(id string, kind Kind, f Fields, createdAt, updatedAt time.Time) Item {
	return Item{
		id:           id,
		kind:         kind,
		title:        f.Title,
		description:  f.Description,
		technologies: append([]string(nil), f.Technologies...),
		category:     f.Category,
		code:         f.Code,
		featured:     f.Featured,
		url:          f.URL,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the item identifier.
func (it Item) ID() string { return it.id }

// Kind returns the collection the item belongs to.
func (it Item) Kind() Kind { return it.kind }

// Title returns the item title.
func (it Item) Title() string { return it.title }

// Description returns the description (excerpt for posts).
func (it Item) Description() string { return it.description }

// Technologies returns a copy of the technology names (tags for posts).
func (it Item) Technologies() []string {
	if it.technologies == nil {
		return nil
	}
	out := make([]string, len(it.technologies))
	copy(out, it.technologies)
	return out
}

// TechnologyCount returns the number of technologies without copying.
func (it Item) TechnologyCount() int { return len(it.technologies) }

// Technology returns the i-th technology name.
func (it Item) Technology(i int) string { return it.technologies[i] }

// Category returns the item category.
func (it Item) Category() string { return it.category }

// Code returns the optional competition code; empty when absent.
func (it Item) Code() string { return it.code }

// Featured reports whether the item is pinned on the landing page.
func (it Item) Featured() bool { return it.featured }

// URL returns the external link for the item.
func (it Item) URL() string { return it.url }

// CreatedAt returns the insertion time.
func (it Item) CreatedAt() time.Time { return it.createdAt }

// UpdatedAt returns the last modification time.
func (it Item) UpdatedAt() time.Time { return it.updatedAt }

// Fields returns the editable attributes.
func (it Item) Fields() Fields {
	return Fields{
		Title:        it.title,
		Description:  it.description,
		Technologies: it.Technologies(),
		Category:     it.category,
		Code:         it.code,
		Featured:     it.featured,
		URL:          it.url,
	}
}

// WithID returns a copy with the given ID.
func (it Item) WithID(id string) Item {
	it.id = id
	return it
}

// WithTimestamps returns a copy with the given timestamps.
func (it Item) WithTimestamps(createdAt, updatedAt time.Time) Item {
	it.createdAt = createdAt
	it.updatedAt = updatedAt
	return it
}
