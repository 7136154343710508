package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

type technologyUsecase struct {
	repo      domain.TechnologyRepository
	validate  *validator.Validate
	sanitizer *validation.Sanitizer
}

func NewTechnologyUsecase(repo domain.TechnologyRepository, validate *validator.Validate, sanitizer *validation.Sanitizer) domain.TechnologyUsecase {
	return &technologyUsecase{repo: repo, validate: validate, sanitizer: sanitizer}
}

func (u *technologyUsecase) List(ctx context.Context, filter domain.TechnologyFilter) (domain.Page[domain.Technology], error) {
	techs, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Technology]{}, err
	}
	return domain.NewPage(techs, total, filter.PageRequest), nil
}

func (u *technologyUsecase) Get(ctx context.Context, id string) (*domain.Technology, error) {
	return u.repo.GetByID(ctx, id)
}

func (u *technologyUsecase) ensureNameFree(ctx context.Context, name, excludeID string) error {
	exists, err := u.repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.Conflict("technology with this name already exists")
	}
	return nil
}

func technologySlug(name string) string {
	if slug := validation.Slugify(name); slug != "" {
		return slug
	}
	return "tech-" + uuid.NewString()[:8]
}

func (u *technologyUsecase) Create(ctx context.Context, p *domain.Principal, req *domain.CreateTechnologyRequest) (*domain.Technology, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	tech := req.ToTechnology()
	if err := u.ensureNameFree(ctx, tech.Name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tech.ID = uuid.NewString()
	tech.OwnerID = p.ID
	tech.Slug = technologySlug(tech.Name)
	tech.CreatedAt = now
	tech.UpdatedAt = now
	if tech.Description != nil {
		d := u.sanitizer.Text(*tech.Description)
		tech.Description = &d
	}

	if err := u.repo.Create(ctx, tech); err != nil {
		return nil, err
	}
	return tech, nil
}

func (u *technologyUsecase) Update(ctx context.Context, p *domain.Principal, id string, req *domain.UpdateTechnologyRequest) (*domain.Technology, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	tech, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(p, tech.OwnerID, "technology"); err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	oldName := tech.Name
	req.ApplyTo(tech)
	if !strings.EqualFold(tech.Name, oldName) {
		if err := u.ensureNameFree(ctx, tech.Name, tech.ID); err != nil {
			return nil, err
		}
	}
	if tech.Name != oldName {
		tech.Slug = technologySlug(tech.Name)
	}
	if tech.Description != nil {
		d := u.sanitizer.Text(*tech.Description)
		tech.Description = &d
	}
	tech.UpdatedAt = time.Now().UTC()

	if err := u.repo.Update(ctx, tech); err != nil {
		return nil, err
	}
	return tech, nil
}

func (u *technologyUsecase) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	tech, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(p, tech.OwnerID, "technology"); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}
