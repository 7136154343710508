package usecase

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

// cvEntryPtr lets the usecase call CVEntry methods on a *T it only knows as T.
type cvEntryPtr[T any] interface {
	*T
	domain.CVEntry
}

// cvSectionUsecase implements owner-scoped CRUD for any CV section.
type cvSectionUsecase[T any, PT cvEntryPtr[T], C domain.CVCreateRequest[T], U domain.CVUpdateRequest[T]] struct {
	repo      domain.CVSectionRepository[T]
	validate  *validator.Validate
	sanitizer *validation.Sanitizer
	label     string
}

func NewCVSectionUsecase[T any, PT cvEntryPtr[T], C domain.CVCreateRequest[T], U domain.CVUpdateRequest[T]](
	repo domain.CVSectionRepository[T],
	validate *validator.Validate,
	sanitizer *validation.Sanitizer,
	label string,
) domain.CVSectionUsecase[T, C, U] {
	return &cvSectionUsecase[T, PT, C, U]{
		repo:      repo,
		validate:  validate,
		sanitizer: sanitizer,
		label:     label,
	}
}

func (u *cvSectionUsecase[T, PT, C, U]) List(ctx context.Context, p *domain.Principal) ([]T, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	entries, err := u.repo.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []T{}
	}
	return entries, nil
}

// owned loads the row and enforces exists → owner.
func (u *cvSectionUsecase[T, PT, C, U]) owned(ctx context.Context, p *domain.Principal, id string) (*T, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	entry, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(p, PT(entry).OwnerID(), u.label); err != nil {
		return nil, err
	}
	return entry, nil
}

func (u *cvSectionUsecase[T, PT, C, U]) Get(ctx context.Context, p *domain.Principal, id string) (*T, error) {
	return u.owned(ctx, p, id)
}

func (u *cvSectionUsecase[T, PT, C, U]) prepare(entry PT) error {
	if err := entry.Check(); err != nil {
		return apperror.BadRequest(err.Error())
	}
	entry.Sanitize(u.sanitizer.Text)
	entry.Touch(time.Now().UTC())
	return nil
}

func (u *cvSectionUsecase[T, PT, C, U]) Create(ctx context.Context, p *domain.Principal, req C) (*T, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	entry := req.ToEntry()
	PT(entry).SetOwner(p.ID)
	if err := u.prepare(PT(entry)); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (u *cvSectionUsecase[T, PT, C, U]) Update(ctx context.Context, p *domain.Principal, id string, req U) (*T, error) {
	entry, err := u.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	req.ApplyTo(entry)
	// The owner can never be changed through an update.
	PT(entry).SetOwner(p.ID)
	if err := u.prepare(PT(entry)); err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (u *cvSectionUsecase[T, PT, C, U]) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if _, err := u.owned(ctx, p, id); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}

// CVSections holds one usecase per multi-row section.
type CVSections struct {
	Skills         domain.SkillUsecase
	Experiences    domain.ExperienceUsecase
	Educations     domain.EducationUsecase
	Certifications domain.CertificationUsecase
	Awards         domain.AwardUsecase
	Interests      domain.InterestUsecase
	References     domain.ReferenceUsecase
}

func NewCVSections(repos domain.CVRepositories, validate *validator.Validate, sanitizer *validation.Sanitizer) CVSections {
	return CVSections{
		Skills: NewCVSectionUsecase[domain.Skill, *domain.Skill, *domain.CreateSkillRequest, *domain.UpdateSkillRequest](
			repos.Skills, validate, sanitizer, "skill"),
		Experiences: NewCVSectionUsecase[domain.Experience, *domain.Experience, *domain.CreateExperienceRequest, *domain.UpdateExperienceRequest](
			repos.Experiences, validate, sanitizer, "experience"),
		Educations: NewCVSectionUsecase[domain.Education, *domain.Education, *domain.CreateEducationRequest, *domain.UpdateEducationRequest](
			repos.Educations, validate, sanitizer, "education"),
		Certifications: NewCVSectionUsecase[domain.Certification, *domain.Certification, *domain.CreateCertificationRequest, *domain.UpdateCertificationRequest](
			repos.Certifications, validate, sanitizer, "certification"),
		Awards: NewCVSectionUsecase[domain.Award, *domain.Award, *domain.CreateAwardRequest, *domain.UpdateAwardRequest](
			repos.Awards, validate, sanitizer, "award"),
		Interests: NewCVSectionUsecase[domain.Interest, *domain.Interest, *domain.CreateInterestRequest, *domain.UpdateInterestRequest](
			repos.Interests, validate, sanitizer, "interest"),
		References: NewCVSectionUsecase[domain.Reference, *domain.Reference, *domain.CreateReferenceRequest, *domain.UpdateReferenceRequest](
			repos.References, validate, sanitizer, "reference"),
	}
}
