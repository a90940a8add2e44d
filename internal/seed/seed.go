// Package seed loads catalog items from a YAML file and keeps the store in sync with it.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/folio/internal/domain/item"
)

// Entry is one item as written in a seed file.
type Entry struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	Tags         []string `yaml:"tags"`
	Category     string   `yaml:"category"`
	Code         string   `yaml:"code"`
	Featured     bool     `yaml:"featured"`
	URL          string   `yaml:"url"`
}

// Fields converts the entry. Post tags are stored as technologies.
func (e Entry) Fields() item.Fields {
	techs := e.Technologies
	if len(techs) == 0 {
		techs = e.Tags
	}
	return item.Fields{
		Title:        e.Title,
		Description:  e.Description,
		Technologies: techs,
		Category:     e.Category,
		Code:         e.Code,
		Featured:     e.Featured,
		URL:          e.URL,
	}
}

// File is the parsed content of a seed file.
type File struct {
	Projects []Entry `yaml:"projects"`
	Posts    []Entry `yaml:"posts"`
}

// Entries returns the entries of kind.
func (f File) Entries(kind item.Kind) []Entry {
	switch kind {
	case item.Project:
		return f.Projects
	case item.Post:
		return f.Posts
	default:
		return nil
	}
}

// Items validates every entry and returns the items of kind in file order.
// Entries without an id get a stable one derived from their position.
func (f File) Items(kind item.Kind) ([]item.Item, error) {
	entries := f.Entries(kind)
	out := make([]item.Item, 0, len(entries))
	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", kind, i+1)
		}
		it, err := item.New(id, kind, e.Fields())
		if err != nil {
			return nil, fmt.Errorf("%s #%d: %w", kind, i+1, err)
		}
		out = append(out, it)
	}
	return out, nil
}

// Len returns the number of entries across all collections.
func (f File) Len() int { return len(f.Projects) + len(f.Posts) }

// Parse decodes a seed document.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}
	return f, nil
}

// Load reads and parses a seed file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(data)
}

// Upserter writes items to the catalog.
type Upserter interface {
	Upsert(ctx context.Context, kind item.Kind, id string, f item.Fields) (bool, error)
}

// Stats counts the outcome of Apply.
type Stats struct {
	Created int
	Updated int
	Failed  int
}

// Apply upserts every entry of f. It keeps going after a failed entry and
// returns the joined errors.
func Apply(ctx context.Context, u Upserter, f File, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		st   Stats
		errs []error
	)
	for _, kind := range item.Kinds() {
		items, err := f.Items(kind)
		if err != nil {
			st.Failed += len(f.Entries(kind))
			errs = append(errs, err)
			continue
		}
		for _, it := range items {
			if err := ctx.Err(); err != nil {
				return st, err
			}
			created, err := u.Upsert(ctx, kind, it.ID(), it.Fields())
			switch {
			case err != nil:
				st.Failed++
				errs = append(errs, fmt.Errorf("upsert %s/%s: %w", kind, it.ID(), err))
			case created:
				st.Created++
			default:
				st.Updated++
			}
		}
	}
	logger.Info("Seed applied",
		zap.Int("created", st.Created),
		zap.Int("updated", st.Updated),
		zap.Int("failed", st.Failed),
	)
	return st, errors.Join(errs...)
}
