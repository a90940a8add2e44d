package folio

import (
	"fmt"
	"reflect"
	"time"
)

const tagKey = "folio"

type role string

const (
	roleID           role = "id"
	roleTitle        role = "title"
	roleDescription  role = "description"
	roleTechnologies role = "technologies"
	roleCategory     role = "category"
	roleCode         role = "code"
	roleFeatured     role = "featured"
	roleURL          role = "url"
	roleCreatedAt    role = "created_at"
	roleUpdatedAt    role = "updated_at"
)

var (
	stringType  = reflect.TypeOf("")
	stringsType = reflect.TypeOf([]string(nil))
	boolType    = reflect.TypeOf(false)
	timeType    = reflect.TypeOf(time.Time{})
)

// roleTypes lists the Go type each tag role must be declared with.
var roleTypes = map[role]reflect.Type{
	roleID:           stringType,
	roleTitle:        stringType,
	roleDescription:  stringType,
	roleTechnologies: stringsType,
	roleCategory:     stringType,
	roleCode:         stringType,
	roleFeatured:     boolType,
	roleURL:          stringType,
	roleCreatedAt:    timeType,
	roleUpdatedAt:    timeType,
}

var requiredRoles = []role{roleID, roleTitle, roleCategory}

// schemaMeta maps item roles to struct field indexes, cached per TypedIndex.
type schemaMeta struct {
	typ    reflect.Type
	fields map[role]int
}

// parseSchema reflects on T and extracts folio struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("folio: type parameter must be a struct")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("folio: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, fields: make(map[role]int)}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, role(tag)); err != nil {
			return nil, err
		}
	}

	for _, r := range requiredRoles {
		if _, ok := meta.fields[r]; !ok {
			return nil, fmt.Errorf("folio: no field with `folio:%q` tag in %s", r, t)
		}
	}
	return meta, nil
}

// applyTag processes a single struct field's folio tag.
func applyTag(meta *schemaMeta, idx int, f reflect.StructField, r role) error {
	want, ok := roleTypes[r]
	if !ok {
		return fmt.Errorf("folio: unknown tag %q on field %s", r, f.Name)
	}
	if f.Type != want {
		return fmt.Errorf("folio: field %s tagged %q must be %s, got %s", f.Name, r, want, f.Type)
	}
	if _, dup := meta.fields[r]; dup {
		return fmt.Errorf("folio: duplicate %q tag on field %s", r, f.Name)
	}
	meta.fields[r] = idx
	return nil
}

// toItem converts a typed struct to an Item using schema metadata.
func (m *schemaMeta) toItem(v any) Item {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	var it Item
	m.each(func(r role, idx int) {
		f := rv.Field(idx)
		switch r {
		case roleID:
			it.ID = f.String()
		case roleTitle:
			it.Title = f.String()
		case roleDescription:
			it.Description = f.String()
		case roleTechnologies:
			it.Technologies, _ = f.Interface().([]string)
		case roleCategory:
			it.Category = f.String()
		case roleCode:
			it.Code = f.String()
		case roleFeatured:
			it.Featured = f.Bool()
		case roleURL:
			it.URL = f.String()
		case roleCreatedAt, roleUpdatedAt:
			// read-only; assigned by the catalog
		}
	})
	return it
}

// fromItem converts an Item back to a typed struct using schema metadata.
func (m *schemaMeta) fromItem(it Item) any {
	v := reflect.New(m.typ).Elem()
	m.each(func(r role, idx int) {
		f := v.Field(idx)
		switch r {
		case roleID:
			f.SetString(it.ID)
		case roleTitle:
			f.SetString(it.Title)
		case roleDescription:
			f.SetString(it.Description)
		case roleTechnologies:
			f.Set(reflect.ValueOf(it.Technologies))
		case roleCategory:
			f.SetString(it.Category)
		case roleCode:
			f.SetString(it.Code)
		case roleFeatured:
			f.SetBool(it.Featured)
		case roleURL:
			f.SetString(it.URL)
		case roleCreatedAt:
			f.Set(reflect.ValueOf(it.CreatedAt))
		case roleUpdatedAt:
			f.Set(reflect.ValueOf(it.UpdatedAt))
		}
	})
	return v.Interface()
}

func (m *schemaMeta) each(fn func(r role, idx int)) {
	for r, idx := range m.fields {
		fn(r, idx)
	}
}
