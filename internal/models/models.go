package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Partner is a logo-wall entry on the marketing site.
type Partner struct {
	Base
	Name         string `gorm:"not null" json:"name" validate:"required,min=2"`
	LogoURL      string `json:"logoUrl"`
	WebsiteURL   string `json:"websiteUrl" validate:"omitempty,url"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
}

func (Partner) TableName() string { return "partners" }

// Slide is one hero-carousel entry.
type Slide struct {
	Base
	Title        string `gorm:"not null" json:"title" validate:"required"`
	Subtitle     string `json:"subtitle"`
	ImageURL     string `json:"imageUrl"`
	CTALabel     string `json:"ctaLabel"`
	CTAURL       string `json:"ctaUrl" validate:"omitempty,url"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
}

func (Slide) TableName() string { return "slides" }

type FAQ struct {
	Base
	Question     string `gorm:"not null" json:"question" validate:"required"`
	Answer       string `gorm:"type:text;not null" json:"answer" validate:"required"`
	Category     string `json:"category"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
}

func (FAQ) TableName() string { return "faqs" }

type Testimonial struct {
	Base
	Author       string `gorm:"not null" json:"author" validate:"required"`
	RoleTitle    string `json:"roleTitle"`
	Quote        string `gorm:"type:text;not null" json:"quote" validate:"required"`
	AvatarURL    string `json:"avatarUrl"`
	Rating       int    `gorm:"default:5" json:"rating" validate:"omitempty,min=1,max=5"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
	IsFeatured   bool   `gorm:"not null;default:false" json:"isFeatured"`
}

func (Testimonial) TableName() string { return "testimonials" }

type Accreditation struct {
	Base
	Name         string `gorm:"not null" json:"name" validate:"required"`
	IssuedBy     string `json:"issuedBy"`
	LogoURL      string `json:"logoUrl"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
}

func (Accreditation) TableName() string { return "accreditations" }

// Service is one marketplace offering.
type Service struct {
	Base
	Name         string  `gorm:"not null" json:"name" validate:"required"`
	Summary      string  `json:"summary"`
	Description  string  `gorm:"type:text" json:"description"`
	IconURL      string  `json:"iconUrl"`
	Price        float64 `gorm:"default:0" json:"price" validate:"omitempty,min=0"`
	DisplayOrder int     `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool    `gorm:"not null;default:true" json:"isActive"`
	IsFeatured   bool    `gorm:"not null;default:false" json:"isFeatured"`
}

func (Service) TableName() string { return "services" }

type University struct {
	Base
	Name         string `gorm:"not null" json:"name" validate:"required"`
	Country      string `json:"country"`
	City         string `json:"city"`
	LogoURL      string `json:"logoUrl"`
	WebsiteURL   string `json:"websiteUrl" validate:"omitempty,url"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
	IsFeatured   bool   `gorm:"not null;default:false" json:"isFeatured"`
}

func (University) TableName() string { return "universities" }

// Post is one blog entry.
type Post struct {
	Base
	Title        string         `gorm:"not null" json:"title" validate:"required"`
	Slug         string         `gorm:"uniqueIndex" json:"slug"`
	Excerpt      string         `json:"excerpt"`
	Body         string         `gorm:"type:text" json:"body"`
	CoverURL     string         `json:"coverUrl"`
	Tags         datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	PublishedAt  *time.Time     `json:"publishedAt"`
	DisplayOrder int            `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool           `gorm:"not null;default:true" json:"isActive"`
	IsFeatured   bool           `gorm:"not null;default:false" json:"isFeatured"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return nil
}

// Course is the richest resource: its modules, objectives and skills are
// array-valued columns stored as JSON text. Each module carries a title, a
// description and an ordered detail list.
type Course struct {
	Base
	Title         string         `gorm:"not null" json:"title" validate:"required"`
	Slug          string         `gorm:"uniqueIndex" json:"slug"`
	Summary       string         `json:"summary"`
	Description   string         `gorm:"type:text" json:"description"`
	Level         string         `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationWeeks int            `gorm:"default:0" json:"durationWeeks" validate:"omitempty,min=0"`
	Price         float64        `gorm:"default:0" json:"price" validate:"omitempty,min=0"`
	ThumbnailURL  string         `json:"thumbnailUrl"`
	Objectives    datatypes.JSON `gorm:"type:jsonb" json:"objectives,omitempty"`
	Skills        datatypes.JSON `gorm:"type:jsonb" json:"skills,omitempty"`
	Modules       datatypes.JSON `gorm:"type:jsonb" json:"modules,omitempty"`
	UniversityID  *string        `gorm:"type:uuid;default:NULL" json:"universityId,omitempty" validate:"omitempty,uuid"`
	University    *University    `json:"university,omitempty"`
	DisplayOrder  int            `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive      bool           `gorm:"not null;default:true" json:"isActive"`
	IsFeatured    bool           `gorm:"not null;default:false" json:"isFeatured"`
}

func (Course) TableName() string { return "courses" }

func (c *Course) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	return nil
}

// AdminUser is a back-office account.
type AdminUser struct {
	Base
	Email    string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"not null" json:"-"`
	FullName string    `json:"fullName"`
	Role     AdminRole `gorm:"not null;default:'EDITOR'" json:"role" validate:"required,admin_role"`
}

func (AdminUser) TableName() string { return "admin_users" }
