package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

type cvUsecase struct {
	repos     domain.CVRepositories
	validate  *validator.Validate
	sanitizer *validation.Sanitizer
}

func NewCVUsecase(repos domain.CVRepositories, validate *validator.Validate, sanitizer *validation.Sanitizer) domain.CVUsecase {
	return &cvUsecase{repos: repos, validate: validate, sanitizer: sanitizer}
}

// GetFullCV loads every section concurrently. A missing personal info row is
// not an error.
func (u *cvUsecase) GetFullCV(ctx context.Context, userID string) (*domain.CV, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperror.BadRequest("invalid user id")
	}

	cv := &domain.CV{UserID: userID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info, err := u.repos.PersonalInfo.GetByUser(gctx, userID)
		if err != nil {
			if apperror.Is(err, http.StatusNotFound) {
				return nil
			}
			return err
		}
		cv.PersonalInfo = info
		return nil
	})
	loadSection(gctx, g, u.repos.Skills, userID, &cv.Skills)
	loadSection(gctx, g, u.repos.Experiences, userID, &cv.Experiences)
	loadSection(gctx, g, u.repos.Educations, userID, &cv.Educations)
	loadSection(gctx, g, u.repos.Certifications, userID, &cv.Certifications)
	loadSection(gctx, g, u.repos.Awards, userID, &cv.Awards)
	loadSection(gctx, g, u.repos.Interests, userID, &cv.Interests)
	loadSection(gctx, g, u.repos.References, userID, &cv.References)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cv, nil
}

func loadSection[T any](ctx context.Context, g *errgroup.Group, repo domain.CVSectionRepository[T], userID string, dst *[]T) {
	g.Go(func() error {
		rows, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []T{}
		}
		*dst = rows
		return nil
	})
}

func (u *cvUsecase) GetPersonalInfo(ctx context.Context, p *domain.Principal) (*domain.PersonalInfo, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return u.repos.PersonalInfo.GetByUser(ctx, p.ID)
}

func (u *cvUsecase) UpsertPersonalInfo(ctx context.Context, p *domain.Principal, req *domain.PersonalInfoRequest) (*domain.PersonalInfo, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	info, err := u.repos.PersonalInfo.GetByUser(ctx, p.ID)
	if err != nil {
		if !apperror.Is(err, http.StatusNotFound) {
			return nil, err
		}
		info = &domain.PersonalInfo{UserID: p.ID}
	}

	req.ApplyTo(info)
	info.UserID = p.ID
	if info.Summary != nil {
		summary := u.sanitizer.Text(*info.Summary)
		info.Summary = &summary
	}
	info.FullName = strings.TrimSpace(u.sanitizer.Text(info.FullName))

	now := time.Now().UTC()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = now
	}
	info.UpdatedAt = now

	if err := u.repos.PersonalInfo.Upsert(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (u *cvUsecase) DeletePersonalInfo(ctx context.Context, p *domain.Principal) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	return u.repos.PersonalInfo.DeleteByUser(ctx, p.ID)
}
