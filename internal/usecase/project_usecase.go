package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

const maxSlugAttempts = 20

var projectStatuses = map[string]bool{
	domain.ProjectStatusDraft:     true,
	domain.ProjectStatusPublished: true,
	domain.ProjectStatusArchived:  true,
}

type projectUsecase struct {
	repo      domain.ProjectRepository
	techs     domain.TechnologyRepository
	validate  *validator.Validate
	sanitizer *validation.Sanitizer
	log       *slog.Logger
}

func NewProjectUsecase(
	repo domain.ProjectRepository,
	techs domain.TechnologyRepository,
	validate *validator.Validate,
	sanitizer *validation.Sanitizer,
	log *slog.Logger,
) domain.ProjectUsecase {
	return &projectUsecase{repo: repo, techs: techs, validate: validate, sanitizer: sanitizer, log: log}
}

// List shows drafts and archived projects to admins only.
func (u *projectUsecase) List(ctx context.Context, viewer *domain.Principal, filter domain.ProjectFilter) (domain.Page[domain.Project], error) {
	if filter.Status != "" && !projectStatuses[filter.Status] {
		return domain.Page[domain.Project]{}, apperror.BadRequest("status must be one of: draft, published, archived")
	}
	if filter.Technology != "" {
		if _, err := uuid.Parse(filter.Technology); err != nil {
			return domain.Page[domain.Project]{}, apperror.BadRequest("technology must be a valid id")
		}
	}
	if !viewer.IsAdmin() {
		filter.Status = domain.ProjectStatusPublished
	}

	projects, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Project]{}, err
	}
	return domain.NewPage(projects, total, filter.PageRequest), nil
}

// find resolves an id or a slug.
func (u *projectUsecase) find(ctx context.Context, idOrSlug string) (*domain.Project, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		return u.repo.GetByID(ctx, idOrSlug)
	}
	return u.repo.GetBySlug(ctx, idOrSlug)
}

// visible hides unpublished projects from non-admins behind NotFound.
func (u *projectUsecase) visible(ctx context.Context, viewer *domain.Principal, idOrSlug string) (*domain.Project, error) {
	project, err := u.find(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !project.IsPublished() && !viewer.IsAdmin() {
		return nil, apperror.NotFound("project not found")
	}
	return project, nil
}

func (u *projectUsecase) Get(ctx context.Context, viewer *domain.Principal, idOrSlug string) (*domain.Project, error) {
	return u.visible(ctx, viewer, idOrSlug)
}

func (u *projectUsecase) checkTechnologies(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := u.techs.CountByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return apperror.BadRequest("one or more technology_ids do not exist")
	}
	return nil
}

// uniqueSlug derives a slug from title, suffixing -2, -3, ... on collision.
func (u *projectUsecase) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := validation.Slugify(title)
	if base == "" {
		base = "project"
	}
	slug := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := u.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func (u *projectUsecase) sanitize(p *domain.Project) {
	if p.Summary != nil {
		s := u.sanitizer.Text(*p.Summary)
		p.Summary = &s
	}
	if p.Description != nil {
		s := u.sanitizer.Text(*p.Description)
		p.Description = &s
	}
}

func (u *projectUsecase) Create(ctx context.Context, p *domain.Principal, req *domain.CreateProjectRequest) (*domain.Project, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	project := req.ToProject()
	if err := project.Check(); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if err := u.checkTechnologies(ctx, project.TechnologyIDs); err != nil {
		return nil, err
	}

	slug, err := u.uniqueSlug(ctx, project.Title, "")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project.ID = uuid.NewString()
	project.OwnerID = p.ID
	project.Slug = slug
	project.CreatedAt = now
	project.UpdatedAt = now
	u.sanitize(project)

	if err := u.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (u *projectUsecase) Update(ctx context.Context, p *domain.Principal, id string, req *domain.UpdateProjectRequest) (*domain.Project, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	project, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(p, project.OwnerID, "project"); err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	oldTitle := project.Title
	req.ApplyTo(project)
	if err := project.Check(); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if req.TechnologyIDs != nil {
		if err := u.checkTechnologies(ctx, project.TechnologyIDs); err != nil {
			return nil, err
		}
	}
	if project.Title != oldTitle {
		slug, err := u.uniqueSlug(ctx, project.Title, project.ID)
		if err != nil {
			return nil, err
		}
		project.Slug = slug
	}
	u.sanitize(project)
	project.UpdatedAt = time.Now().UTC()

	if err := u.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (u *projectUsecase) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	project, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(p, project.OwnerID, "project"); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}

func (u *projectUsecase) status(ctx context.Context, projectID string, liked bool) (*domain.LikeStatus, error) {
	project, err := u.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &domain.LikeStatus{ProjectID: project.ID, Count: project.LikesCount, Liked: liked}, nil
}

func (u *projectUsecase) Like(ctx context.Context, p *domain.Principal, id string) (*domain.LikeStatus, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	project, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.IsPublished() {
		return nil, apperror.NotFound("project not found")
	}
	if err := u.repo.Like(ctx, project.ID, p.ID); err != nil {
		return nil, err
	}
	return u.status(ctx, project.ID, true)
}

func (u *projectUsecase) Unlike(ctx context.Context, p *domain.Principal, id string) (*domain.LikeStatus, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	project, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Unlike(ctx, project.ID, p.ID); err != nil {
		return nil, err
	}
	return u.status(ctx, project.ID, false)
}

// LikeStatus works for anonymous viewers; liked is then always false.
func (u *projectUsecase) LikeStatus(ctx context.Context, viewer *domain.Principal, id string) (*domain.LikeStatus, error) {
	project, err := u.visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	st := &domain.LikeStatus{ProjectID: project.ID, Count: project.LikesCount}
	if viewer != nil && viewer.ID != "" {
		liked, err := u.repo.HasLiked(ctx, project.ID, viewer.ID)
		if err != nil {
			return nil, err
		}
		st.Liked = liked
	}
	return st, nil
}

func (u *projectUsecase) Liked(ctx context.Context, p *domain.Principal, page domain.PageRequest) (domain.Page[domain.Project], error) {
	if err := requirePrincipal(p); err != nil {
		return domain.Page[domain.Project]{}, err
	}
	projects, total, err := u.repo.ListLikedBy(ctx, p.ID, page)
	if err != nil {
		return domain.Page[domain.Project]{}, err
	}
	return domain.NewPage(projects, total, page), nil
}
