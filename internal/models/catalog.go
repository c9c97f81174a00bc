package models

import (
	"eduport/internal/resource"
)

// Catalog is the single source of truth for every back-office managed
// resource: one schema entry here replaces one bespoke admin panel. The
// schemas are checked at package init, so a bad entry fails at startup.
func Catalog() map[string]resource.Schema {
	return map[string]resource.Schema{
		"partners": resource.MustSchema(resource.Schema{
			Resource:   "partners",
			OrderField: "display_order",
			Flags:      []string{"is_active"},
			Fields: []resource.Field{
				{Name: "name", Kind: resource.KindText, Required: true},
				{Name: "logo_url", Kind: resource.KindText},
				{Name: "website_url", Kind: resource.KindText},
			},
		}),
		"slides": resource.MustSchema(resource.Schema{
			Resource:   "slides",
			OrderField: "display_order",
			Flags:      []string{"is_active"},
			Fields: []resource.Field{
				{Name: "title", Kind: resource.KindText, Required: true},
				{Name: "subtitle", Kind: resource.KindText},
				{Name: "image_url", Kind: resource.KindText},
				{Name: "cta_label", Kind: resource.KindText},
				{Name: "cta_url", Kind: resource.KindText},
			},
		}),
		"faqs": resource.MustSchema(resource.Schema{
			Resource:   "faqs",
			OrderField: "display_order",
			Flags:      []string{"is_active"},
			Fields: []resource.Field{
				{Name: "question", Kind: resource.KindText, Required: true},
				{Name: "answer", Kind: resource.KindLongText, Required: true},
				{Name: "category", Kind: resource.KindText},
			},
		}),
		"testimonials": resource.MustSchema(resource.Schema{
			Resource:   "testimonials",
			OrderField: "display_order",
			Flags:      []string{"is_active", "is_featured"},
			Fields: []resource.Field{
				{Name: "author", Kind: resource.KindText, Required: true},
				{Name: "role_title", Kind: resource.KindText},
				{Name: "quote", Kind: resource.KindLongText, Required: true},
				{Name: "avatar_url", Kind: resource.KindText},
				{Name: "rating", Kind: resource.KindNumber, Default: 5},
			},
		}),
		"accreditations": resource.MustSchema(resource.Schema{
			Resource:   "accreditations",
			OrderField: "display_order",
			Flags:      []string{"is_active"},
			Fields: []resource.Field{
				{Name: "name", Kind: resource.KindText, Required: true},
				{Name: "issued_by", Kind: resource.KindText},
				{Name: "logo_url", Kind: resource.KindText},
			},
		}),
		"services": resource.MustSchema(resource.Schema{
			Resource:   "services",
			OrderField: "display_order",
			Flags:      []string{"is_active", "is_featured"},
			Fields: []resource.Field{
				{Name: "name", Kind: resource.KindText, Required: true},
				{Name: "summary", Kind: resource.KindText},
				{Name: "description", Kind: resource.KindLongText},
				{Name: "icon_url", Kind: resource.KindText},
				{Name: "price", Kind: resource.KindNumber},
			},
		}),
		"universities": resource.MustSchema(resource.Schema{
			Resource:   "universities",
			OrderField: "display_order",
			Flags:      []string{"is_active", "is_featured"},
			Fields: []resource.Field{
				{Name: "name", Kind: resource.KindText, Required: true},
				{Name: "country", Kind: resource.KindText},
				{Name: "city", Kind: resource.KindText},
				{Name: "logo_url", Kind: resource.KindText},
				{Name: "website_url", Kind: resource.KindText},
			},
		}),
		"posts": resource.MustSchema(resource.Schema{
			Resource:   "posts",
			OrderField: "display_order",
			Flags:      []string{"is_active", "is_featured"},
			Fields: []resource.Field{
				{Name: "title", Kind: resource.KindText, Required: true},
				{Name: "slug", Kind: resource.KindText, Required: true},
				{Name: "excerpt", Kind: resource.KindText},
				{Name: "body", Kind: resource.KindLongText},
				{Name: "cover_url", Kind: resource.KindText},
				{Name: "tags", Kind: resource.KindList},
				{Name: "published_at", Kind: resource.KindDateTime},
			},
		}),
		"courses": resource.MustSchema(resource.Schema{
			Resource:   "courses",
			OrderField: "display_order",
			Flags:      []string{"is_active", "is_featured"},
			Fields: []resource.Field{
				{Name: "title", Kind: resource.KindText, Required: true},
				{Name: "slug", Kind: resource.KindText, Required: true},
				{Name: "summary", Kind: resource.KindText},
				{Name: "description", Kind: resource.KindLongText},
				{Name: "level", Kind: resource.KindText},
				{Name: "duration_weeks", Kind: resource.KindNumber},
				{Name: "price", Kind: resource.KindNumber},
				{Name: "thumbnail_url", Kind: resource.KindText},
				{Name: "objectives", Kind: resource.KindList},
				{Name: "skills", Kind: resource.KindList},
				{Name: "modules", Kind: resource.KindList},
				{Name: "university_id", Kind: resource.KindText},
			},
		}),
	}
}
