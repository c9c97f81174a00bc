package models

import (
	"testing"

	"eduport/internal/resource"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"MBA in Digital Marketing", "mba-in-digital-marketing"},
		{"  Study Abroad: 2026 Guide!  ", "study-abroad-2026-guide"},
		{"C++ & Go --- side by side", "c-go-side-by-side"},
		{"---", ""},
		{"", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCatalogSchemasAreConsistent(t *testing.T) {
	catalog := Catalog()
	if len(catalog) == 0 {
		t.Fatal("catalog is empty")
	}

	for key, schema := range catalog {
		if schema.Resource != key {
			t.Errorf("%s: schema resource is %q", key, schema.Resource)
		}
		if schema.OrderField == "" {
			t.Errorf("%s: no order field", key)
		}
		if !schema.HasFlag("is_active") {
			t.Errorf("%s: every managed resource needs an is_active flag", key)
		}
		if len(schema.RequiredFields()) == 0 {
			t.Errorf("%s: no required fields, empty rows would validate", key)
		}
	}
}

func TestCatalogTemplatesStartActive(t *testing.T) {
	for key, schema := range Catalog() {
		tpl := schema.Template()
		if tpl["is_active"] != true {
			t.Errorf("%s: new records should default to active, got %v", key, tpl["is_active"])
		}
		for _, name := range schema.ListFields() {
			if _, ok := tpl[name].([]interface{}); !ok {
				t.Errorf("%s: list field %s should start as an empty list, got %T", key, name, tpl[name])
			}
		}
	}
}

func TestCatalogMatchesModelTables(t *testing.T) {
	tables := map[string]string{
		"partners":       Partner{}.TableName(),
		"slides":         Slide{}.TableName(),
		"faqs":           FAQ{}.TableName(),
		"testimonials":   Testimonial{}.TableName(),
		"accreditations": Accreditation{}.TableName(),
		"services":       Service{}.TableName(),
		"universities":   University{}.TableName(),
		"posts":          Post{}.TableName(),
		"courses":        Course{}.TableName(),
	}

	catalog := Catalog()
	for key, table := range tables {
		if key != table {
			t.Errorf("catalog key %q does not match table %q", key, table)
		}
		if _, ok := catalog[key]; !ok {
			t.Errorf("model table %q has no catalog schema", key)
		}
	}
	if len(catalog) != len(tables) {
		t.Errorf("catalog has %d schemas, models declare %d tables", len(catalog), len(tables))
	}
}

func TestSchemaRejectsCollisions(t *testing.T) {
	_, err := resource.NewSchema(resource.Schema{
		Resource:   "broken",
		OrderField: "display_order",
		Flags:      []string{"is_active"},
		Fields: []resource.Field{
			{Name: "name", Kind: resource.KindText, Required: true},
			{Name: "is_active", Kind: resource.KindBool},
		},
	})
	if err == nil {
		t.Error("expected flag/field collision to be rejected")
	}
}
