package resource

import (
	"fmt"

	playgroundvalidator "github.com/go-playground/validator/v10"
)

// FieldKind classifies how a field is edited, validated and exported.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindLongText FieldKind = "longtext"
	KindNumber   FieldKind = "number"
	KindBool     FieldKind = "bool"
	KindDateTime FieldKind = "datetime"
	// KindList fields are array-valued. The backend stores them as JSON
	// text; sessions parse them at the boundary and serialize them back on
	// commit. List fields never appear in exports.
	KindList FieldKind = "list"
)

// Field describes one editable column of a resource.
type Field struct {
	Name     string      `validate:"required"`
	Kind     FieldKind   `validate:"required,oneof=text longtext number bool datetime list"`
	Required bool        `validate:"-"`
	Default  interface{} `validate:"-"`
}

// Schema is the per-resource configuration the store, session and bulk
// executor are parameterized with. One schema replaces one bespoke admin
// panel.
type Schema struct {
	Resource   string   `validate:"required"`
	Fields     []Field  `validate:"required,min=1,dive"`
	OrderField string   `validate:"required"`
	Flags      []string `validate:"dive,oneof=is_active is_featured"`
}

var validate = playgroundvalidator.New()

// NewSchema checks the schema definition once, at construction, so that a
// bad catalog entry fails at startup rather than on first use.
func NewSchema(s Schema) (Schema, error) {
	if err := validate.Struct(s); err != nil {
		return Schema{}, fmt.Errorf("schema %q: %w", s.Resource, err)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if seen[f.Name] {
			return Schema{}, fmt.Errorf("schema %q: duplicate field %q", s.Resource, f.Name)
		}
		seen[f.Name] = true
	}
	for _, flag := range s.Flags {
		if seen[flag] {
			return Schema{}, fmt.Errorf("schema %q: flag %q collides with a field", s.Resource, flag)
		}
	}
	if seen[s.OrderField] {
		return Schema{}, fmt.Errorf("schema %q: order field %q must not be listed as a field", s.Resource, s.OrderField)
	}

	return s, nil
}

// MustSchema is for catalog literals that are known-good by construction.
func MustSchema(s Schema) Schema {
	checked, err := NewSchema(s)
	if err != nil {
		panic(err)
	}
	return checked
}

// RequiredFields returns the names of fields that must be non-empty before
// a record may be persisted.
func (s Schema) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// ListFields returns the names of array-valued fields.
func (s Schema) ListFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Kind == KindList {
			out = append(out, f.Name)
		}
	}
	return out
}

// HasFlag reports whether the boolean flag is part of this resource.
func (s Schema) HasFlag(name string) bool {
	for _, f := range s.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// FieldByName returns the field definition, if any.
func (s Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Template returns a blank draft with every field at its default value.
func (s Schema) Template() map[string]interface{} {
	draft := make(map[string]interface{}, len(s.Fields)+len(s.Flags)+1)
	for _, f := range s.Fields {
		switch {
		case f.Default != nil:
			draft[f.Name] = f.Default
		case f.Kind == KindList:
			draft[f.Name] = []interface{}{}
		case f.Kind == KindBool:
			draft[f.Name] = false
		case f.Kind == KindNumber:
			draft[f.Name] = 0
		case f.Kind == KindDateTime:
			draft[f.Name] = nil
		default:
			draft[f.Name] = ""
		}
	}
	for _, flag := range s.Flags {
		// New records default to visible, not featured.
		draft[flag] = flag == "is_active"
	}
	draft[s.OrderField] = 0
	return draft
}
