package domain

import (
	"context"
	"strings"
	"time"
)

type Technology struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Category          string    `json:"category"`
	Proficiency       *string   `json:"proficiency"`
	IconURL           *string   `json:"icon_url"`
	WebsiteURL        *string   `json:"website_url"`
	Description       *string   `json:"description"`
	YearsOfExperience *int      `json:"years_of_experience"`
	Featured          bool      `json:"featured"`
	SortOrder         int       `json:"sort_order"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateTechnologyRequest struct {
	Name              string  `json:"name" validate:"required,min=1,max=60"`
	Category          string  `json:"category" validate:"required,oneof=language frontend backend database devops cloud mobile testing tool other"`
	Proficiency       *string `json:"proficiency" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	IconURL           *string `json:"icon_url" validate:"omitempty,url,max=500"`
	WebsiteURL        *string `json:"website_url" validate:"omitempty,url,max=500"`
	Description       *string `json:"description" validate:"omitempty,max=1000"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"omitempty,min=0,max=60"`
	Featured          bool    `json:"featured"`
	SortOrder         int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateTechnologyRequest) ToTechnology() *Technology {
	return &Technology{
		Name:              strings.TrimSpace(r.Name),
		Category:          r.Category,
		Proficiency:       blankToNil(r.Proficiency),
		IconURL:           blankToNil(r.IconURL),
		WebsiteURL:        blankToNil(r.WebsiteURL),
		Description:       blankToNil(r.Description),
		YearsOfExperience: r.YearsOfExperience,
		Featured:          r.Featured,
		SortOrder:         r.SortOrder,
	}
}

type UpdateTechnologyRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=60"`
	Category          *string `json:"category" validate:"omitempty,oneof=language frontend backend database devops cloud mobile testing tool other"`
	Proficiency       *string `json:"proficiency" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	IconURL           *string `json:"icon_url" validate:"omitempty,url,max=500"`
	WebsiteURL        *string `json:"website_url" validate:"omitempty,url,max=500"`
	Description       *string `json:"description" validate:"omitempty,max=1000"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"omitempty,min=0,max=60"`
	Featured          *bool   `json:"featured"`
	SortOrder         *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateTechnologyRequest) ApplyTo(t *Technology) {
	setTrimmed(&t.Name, r.Name)
	set(&t.Category, r.Category)
	setOptional(&t.Proficiency, r.Proficiency)
	setOptional(&t.IconURL, r.IconURL)
	setOptional(&t.WebsiteURL, r.WebsiteURL)
	setOptional(&t.Description, r.Description)
	if r.YearsOfExperience != nil {
		t.YearsOfExperience = r.YearsOfExperience
	}
	set(&t.Featured, r.Featured)
	set(&t.SortOrder, r.SortOrder)
}

type TechnologyFilter struct {
	PageRequest
	Search   string `form:"search"`
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
}

type TechnologyRepository interface {
	Create(ctx context.Context, tech *Technology) error
	GetByID(ctx context.Context, id string) (*Technology, error)
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, tech *Technology) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TechnologyFilter) ([]Technology, int64, error)
	CountByIDs(ctx context.Context, ids []string) (int, error)
}

type TechnologyUsecase interface {
	List(ctx context.Context, filter TechnologyFilter) (Page[Technology], error)
	Get(ctx context.Context, id string) (*Technology, error)
	Create(ctx context.Context, p *Principal, req *CreateTechnologyRequest) (*Technology, error)
	Update(ctx context.Context, p *Principal, id string, req *UpdateTechnologyRequest) (*Technology, error)
	Delete(ctx context.Context, p *Principal, id string) error
}
