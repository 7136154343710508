package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

const ownerID = "5f0c8a5e-2b7d-4c1e-9a43-0e6f1b2c3d4e"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

type cvFixture struct {
	info   *MockPersonalInfoRepo
	skills *MockSectionRepo[domain.Skill]
	exps   *MockSectionRepo[domain.Experience]
	edus   *MockSectionRepo[domain.Education]
	certs  *MockSectionRepo[domain.Certification]
	awards *MockSectionRepo[domain.Award]
	ints   *MockSectionRepo[domain.Interest]
	refs   *MockSectionRepo[domain.Reference]
}

func newCVFixture() *cvFixture {
	return &cvFixture{
		info:   new(MockPersonalInfoRepo),
		skills: new(MockSectionRepo[domain.Skill]),
		exps:   new(MockSectionRepo[domain.Experience]),
		edus:   new(MockSectionRepo[domain.Education]),
		certs:  new(MockSectionRepo[domain.Certification]),
		awards: new(MockSectionRepo[domain.Award]),
		ints:   new(MockSectionRepo[domain.Interest]),
		refs:   new(MockSectionRepo[domain.Reference]),
	}
}

func (f *cvFixture) repos() domain.CVRepositories {
	return domain.CVRepositories{
		PersonalInfo:   f.info,
		Skills:         f.skills,
		Experiences:    f.exps,
		Educations:     f.edus,
		Certifications: f.certs,
		Awards:         f.awards,
		Interests:      f.ints,
		References:     f.refs,
	}
}

func TestSkillCreateForcesOwner(t *testing.T) {
	ctx := context.Background()
	f := newCVFixture()
	sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())
	caller := &domain.Principal{ID: ownerID, Role: domain.RoleUser}

	f.skills.On("Create", ctx, mock.MatchedBy(func(s *domain.Skill) bool {
		return s.UserID == ownerID && s.Category == "technical" && s.Name == "Go"
	})).Return(nil)

	skill, err := sections.Skills.Create(ctx, caller, &domain.CreateSkillRequest{Name: "  Go  ", SortOrder: 1})
	require.NoError(t, err)
	assert.Equal(t, ownerID, skill.UserID)
	assert.False(t, skill.CreatedAt.IsZero())
	f.skills.AssertExpectations(t)
}

func TestSkillCreateRequiresSession(t *testing.T) {
	f := newCVFixture()
	sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())

	_, err := sections.Skills.Create(context.Background(), nil, &domain.CreateSkillRequest{Name: "Go"})
	assert.Equal(t, http.StatusUnauthorized, apperror.Code(err))
}

func TestSectionOwnership(t *testing.T) {
	ctx := context.Background()
	f := newCVFixture()
	sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())
	stranger := &domain.Principal{ID: "someone-else", Role: domain.RoleAdmin}

	f.skills.On("GetByID", ctx, "s1").Return(&domain.Skill{CVBase: domain.CVBase{ID: "s1", UserID: ownerID}, Name: "Go"}, nil)

	_, err := sections.Skills.Get(ctx, stranger, "s1")
	assert.Equal(t, http.StatusForbidden, apperror.Code(err))

	_, err = sections.Skills.Update(ctx, stranger, "s1", &domain.UpdateSkillRequest{Name: strPtr("Rust")})
	assert.Equal(t, http.StatusForbidden, apperror.Code(err))

	err = sections.Skills.Delete(ctx, stranger, "s1")
	assert.Equal(t, http.StatusForbidden, apperror.Code(err))

	f.skills.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.skills.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSectionMissingEntry(t *testing.T) {
	ctx := context.Background()
	f := newCVFixture()
	sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())

	f.awards.On("GetByID", ctx, "nope").Return(nil, apperror.NotFound("award not found"))

	err := sections.Awards.Delete(ctx, &domain.Principal{ID: ownerID}, "nope")
	assert.Equal(t, http.StatusNotFound, apperror.Code(err))
}

func TestExperienceDateRules(t *testing.T) {
	ctx := context.Background()
	caller := &domain.Principal{ID: ownerID}

	t.Run("end before start", func(t *testing.T) {
		f := newCVFixture()
		sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())

		_, err := sections.Experiences.Create(ctx, caller, &domain.CreateExperienceRequest{
			Company: "Acme", Position: "Engineer", StartDate: "2023-05-01", EndDate: strPtr("2022-01-01"),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
		assert.Contains(t, err.Error(), "end_date")
		f.exps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("current role with end date", func(t *testing.T) {
		f := newCVFixture()
		sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())

		_, err := sections.Experiences.Create(ctx, caller, &domain.CreateExperienceRequest{
			Company: "Acme", Position: "Engineer", StartDate: "2023-05-01", EndDate: strPtr("2024-01-01"), IsCurrent: true,
		})
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
	})

	t.Run("switching to current clears end date", func(t *testing.T) {
		f := newCVFixture()
		sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())

		existing := &domain.Experience{
			CVBase:    domain.CVBase{ID: "e1", UserID: ownerID},
			Company:   "Acme",
			Position:  "Engineer",
			StartDate: "2023-05-01",
			EndDate:   strPtr("2024-01-01"),
		}
		f.exps.On("GetByID", ctx, "e1").Return(existing, nil)
		f.exps.On("Update", ctx, mock.Anything).Return(nil)

		updated, err := sections.Experiences.Update(ctx, caller, "e1", &domain.UpdateExperienceRequest{
			IsCurrent:   boolPtr(true),
			Description: strPtr("<script>alert(1)</script>Built things"),
			SortOrder:   intPtr(3),
		})
		require.NoError(t, err)
		assert.True(t, updated.IsCurrent)
		assert.Nil(t, updated.EndDate)
		assert.Equal(t, 3, updated.SortOrder)
		assert.Equal(t, "Built things", *updated.Description)
	})
}

func TestSectionListNeverNil(t *testing.T) {
	ctx := context.Background()
	f := newCVFixture()
	sections := usecase.NewCVSections(f.repos(), validation.New(), validation.NewSanitizer())

	f.ints.On("ListByUser", ctx, ownerID).Return(nil, nil)

	rows, err := sections.Interests.List(ctx, &domain.Principal{ID: ownerID})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestGetFullCV(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid user id", func(t *testing.T) {
		f := newCVFixture()
		uc := usecase.NewCVUsecase(f.repos(), validation.New(), validation.NewSanitizer())
		_, err := uc.GetFullCV(ctx, "not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
	})

	t.Run("assembles sections without personal info", func(t *testing.T) {
		f := newCVFixture()
		uc := usecase.NewCVUsecase(f.repos(), validation.New(), validation.NewSanitizer())

		f.info.On("GetByUser", mock.Anything, ownerID).Return(nil, apperror.NotFound("personal info not found"))
		f.skills.On("ListByUser", mock.Anything, ownerID).Return([]domain.Skill{{Name: "Go"}, {Name: "SQL"}}, nil)
		f.exps.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.edus.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.certs.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.awards.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.ints.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.refs.On("ListByUser", mock.Anything, ownerID).Return([]domain.Reference{{Name: "Ada"}}, nil)

		cv, err := uc.GetFullCV(ctx, ownerID)
		require.NoError(t, err)
		assert.Nil(t, cv.PersonalInfo)
		assert.Len(t, cv.Skills, 2)
		assert.Len(t, cv.References, 1)
		assert.NotNil(t, cv.Awards)
		assert.Empty(t, cv.Awards)
	})

	t.Run("section failure aborts", func(t *testing.T) {
		f := newCVFixture()
		uc := usecase.NewCVUsecase(f.repos(), validation.New(), validation.NewSanitizer())

		f.info.On("GetByUser", mock.Anything, ownerID).Return(&domain.PersonalInfo{FullName: "Jane"}, nil)
		f.skills.On("ListByUser", mock.Anything, ownerID).Return(nil, errors.New("connection reset"))
		f.exps.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.edus.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.certs.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.awards.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.ints.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)
		f.refs.On("ListByUser", mock.Anything, ownerID).Return(nil, nil)

		_, err := uc.GetFullCV(ctx, ownerID)
		assert.Error(t, err)
	})
}

func TestUpsertPersonalInfo(t *testing.T) {
	ctx := context.Background()
	caller := &domain.Principal{ID: ownerID}

	t.Run("creates when missing", func(t *testing.T) {
		f := newCVFixture()
		uc := usecase.NewCVUsecase(f.repos(), validation.New(), validation.NewSanitizer())

		f.info.On("GetByUser", ctx, ownerID).Return(nil, apperror.NotFound("personal info not found"))
		f.info.On("Upsert", ctx, mock.MatchedBy(func(i *domain.PersonalInfo) bool {
			return i.UserID == ownerID && i.FullName == "Jane Doe" && i.Headline == nil
		})).Return(nil)

		info, err := uc.UpsertPersonalInfo(ctx, caller, &domain.PersonalInfoRequest{
			FullName: "Jane Doe",
			Headline: strPtr("   "),
			Summary:  strPtr("<p>Backend engineer</p>"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Backend engineer", *info.Summary)
		assert.False(t, info.CreatedAt.IsZero())
		f.info.AssertExpectations(t)
	})

	t.Run("rejects invalid url", func(t *testing.T) {
		f := newCVFixture()
		uc := usecase.NewCVUsecase(f.repos(), validation.New(), validation.NewSanitizer())

		_, err := uc.UpsertPersonalInfo(ctx, caller, &domain.PersonalInfoRequest{
			FullName: "Jane Doe",
			Website:  strPtr("not a url"),
		})
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
		f.info.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
