package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/pkg/validation"
)

const (
	ProjectStatusDraft     = "draft"
	ProjectStatusPublished = "published"
	ProjectStatusArchived  = "archived"
)

var ErrCompletedBeforeStarted = errors.New("completed_on must not be before started_on")

type Project struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Summary       *string   `json:"summary"`
	Description   *string   `json:"description"`
	Status        string    `json:"status"`
	Featured      bool      `json:"featured"`
	RepoURL       *string   `json:"repo_url"`
	LiveURL       *string   `json:"live_url"`
	CoverImageURL *string   `json:"cover_image_url"`
	Tags          []string  `json:"tags"`
	TechnologyIDs []string  `json:"technology_ids"`
	StartedOn     *string   `json:"started_on"`
	CompletedOn   *string   `json:"completed_on"`
	LikesCount    int       `json:"likes_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Project) IsPublished() bool {
	return p.Status == ProjectStatusPublished
}

func (p *Project) Check() error {
	if p.StartedOn != nil && p.CompletedOn != nil && !validation.DateNotBefore(*p.StartedOn, *p.CompletedOn) {
		return ErrCompletedBeforeStarted
	}
	return nil
}

type CreateProjectRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=150"`
	Summary       *string  `json:"summary" validate:"omitempty,max=300"`
	Description   *string  `json:"description" validate:"omitempty,max=20000"`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured      bool     `json:"featured"`
	RepoURL       *string  `json:"repo_url" validate:"omitempty,url,max=500"`
	LiveURL       *string  `json:"live_url" validate:"omitempty,url,max=500"`
	CoverImageURL *string  `json:"cover_image_url" validate:"omitempty,url,max=500"`
	Tags          []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=40"`
	TechnologyIDs []string `json:"technology_ids" validate:"omitempty,max=50,dive,uuid_rfc4122"`
	StartedOn     *string  `json:"started_on" validate:"omitempty,date_only"`
	CompletedOn   *string  `json:"completed_on" validate:"omitempty,date_only"`
}

func (r *CreateProjectRequest) ToProject() *Project {
	status := r.Status
	if status == "" {
		status = ProjectStatusDraft
	}
	return &Project{
		Title:         strings.TrimSpace(r.Title),
		Summary:       blankToNil(r.Summary),
		Description:   blankToNil(r.Description),
		Status:        status,
		Featured:      r.Featured,
		RepoURL:       blankToNil(r.RepoURL),
		LiveURL:       blankToNil(r.LiveURL),
		CoverImageURL: blankToNil(r.CoverImageURL),
		Tags:          NormalizeTags(r.Tags),
		TechnologyIDs: uniqueIDs(r.TechnologyIDs),
		StartedOn:     blankToNil(r.StartedOn),
		CompletedOn:   blankToNil(r.CompletedOn),
	}
}

type UpdateProjectRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=3,max=150"`
	Summary       *string   `json:"summary" validate:"omitempty,max=300"`
	Description   *string   `json:"description" validate:"omitempty,max=20000"`
	Status        *string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured      *bool     `json:"featured"`
	RepoURL       *string   `json:"repo_url" validate:"omitempty,url,max=500"`
	LiveURL       *string   `json:"live_url" validate:"omitempty,url,max=500"`
	CoverImageURL *string   `json:"cover_image_url" validate:"omitempty,url,max=500"`
	Tags          *[]string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=40"`
	TechnologyIDs *[]string `json:"technology_ids" validate:"omitempty,max=50,dive,uuid_rfc4122"`
	StartedOn     *string   `json:"started_on" validate:"omitempty,date_only"`
	CompletedOn   *string   `json:"completed_on" validate:"omitempty,date_only"`
}

func (r *UpdateProjectRequest) ApplyTo(p *Project) {
	setTrimmed(&p.Title, r.Title)
	setOptional(&p.Summary, r.Summary)
	setOptional(&p.Description, r.Description)
	set(&p.Status, r.Status)
	set(&p.Featured, r.Featured)
	setOptional(&p.RepoURL, r.RepoURL)
	setOptional(&p.LiveURL, r.LiveURL)
	setOptional(&p.CoverImageURL, r.CoverImageURL)
	if r.Tags != nil {
		p.Tags = NormalizeTags(*r.Tags)
	}
	if r.TechnologyIDs != nil {
		p.TechnologyIDs = uniqueIDs(*r.TechnologyIDs)
	}
	setOptional(&p.StartedOn, r.StartedOn)
	setOptional(&p.CompletedOn, r.CompletedOn)
}

type ProjectFilter struct {
	PageRequest
	Search     string `form:"search"`
	Tag        string `form:"tag"`
	Technology string `form:"technology"`
	Status     string `form:"status"`
	Featured   *bool  `form:"featured"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
}

type LikeStatus struct {
	ProjectID string `json:"project_id"`
	Count     int    `json:"count"`
	Liked     bool   `json:"liked"`
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProjectFilter) ([]Project, int64, error)
	// Like inserts the pair and bumps likes_count atomically. Duplicate → Conflict.
	Like(ctx context.Context, projectID, userID string) error
	// Unlike removes the pair and decrements likes_count. Missing → NotFound.
	Unlike(ctx context.Context, projectID, userID string) error
	HasLiked(ctx context.Context, projectID, userID string) (bool, error)
	ListLikedBy(ctx context.Context, userID string, page PageRequest) ([]Project, int64, error)
}

type ProjectUsecase interface {
	List(ctx context.Context, viewer *Principal, filter ProjectFilter) (Page[Project], error)
	Get(ctx context.Context, viewer *Principal, idOrSlug string) (*Project, error)
	Create(ctx context.Context, p *Principal, req *CreateProjectRequest) (*Project, error)
	Update(ctx context.Context, p *Principal, id string, req *UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, p *Principal, id string) error
	Like(ctx context.Context, p *Principal, id string) (*LikeStatus, error)
	Unlike(ctx context.Context, p *Principal, id string) (*LikeStatus, error)
	LikeStatus(ctx context.Context, viewer *Principal, id string) (*LikeStatus, error)
	Liked(ctx context.Context, p *Principal, page PageRequest) (Page[Project], error)
}

// NormalizeTags lowercases, trims and de-duplicates tags, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// uniqueIDs lowercases UUIDs so differently cased duplicates collapse.
func uniqueIDs(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
