package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/validation"
)

const (
	projectID = "0b3c7a52-1f2e-4d6a-8c9b-7e5f4a3b2c1d"
	techID    = "8d1e2f3a-4b5c-4d6e-9f70-8192a3b4c5d6"
	adminID   = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

func newProjectUsecase() (domain.ProjectUsecase, *MockProjectRepo, *MockTechnologyRepo) {
	repo, techs := new(MockProjectRepo), new(MockTechnologyRepo)
	uc := usecase.NewProjectUsecase(repo, techs, validation.New(), validation.NewSanitizer(), logger.Discard())
	return uc, repo, techs
}

var adminPrincipal = &domain.Principal{ID: adminID, Role: domain.RoleAdmin}

func TestProjectListForcesPublishedForVisitors(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newProjectUsecase()

	repo.On("List", ctx, mock.MatchedBy(func(f domain.ProjectFilter) bool {
		return f.Status == domain.ProjectStatusPublished
	})).Return([]domain.Project{{ID: projectID}}, int64(1), nil)

	page, err := uc.List(ctx, nil, domain.ProjectFilter{Status: domain.ProjectStatusDraft})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Meta.Total)
	repo.AssertExpectations(t)
}

func TestProjectListAdminKeepsStatus(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newProjectUsecase()

	repo.On("List", ctx, mock.MatchedBy(func(f domain.ProjectFilter) bool {
		return f.Status == domain.ProjectStatusDraft
	})).Return(nil, int64(0), nil)

	page, err := uc.List(ctx, adminPrincipal, domain.ProjectFilter{Status: domain.ProjectStatusDraft})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
}

func TestProjectListRejectsBadFilters(t *testing.T) {
	uc, _, _ := newProjectUsecase()

	_, err := uc.List(context.Background(), nil, domain.ProjectFilter{Status: "deleted"})
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))

	_, err = uc.List(context.Background(), nil, domain.ProjectFilter{Technology: "golang"})
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
}

func TestProjectGet(t *testing.T) {
	ctx := context.Background()

	t.Run("by slug", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetBySlug", ctx, "portfolio-api").Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusPublished}, nil)

		p, err := uc.Get(ctx, nil, "portfolio-api")
		require.NoError(t, err)
		assert.Equal(t, projectID, p.ID)
	})

	t.Run("draft hidden from visitors", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusDraft}, nil)

		_, err := uc.Get(ctx, &domain.Principal{ID: "u1", Role: domain.RoleUser}, projectID)
		assert.Equal(t, http.StatusNotFound, apperror.Code(err))

		p, err := uc.Get(ctx, adminPrincipal, projectID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProjectStatusDraft, p.Status)
	})
}

func TestProjectCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("non admin", func(t *testing.T) {
		uc, _, _ := newProjectUsecase()
		_, err := uc.Create(ctx, &domain.Principal{ID: "u1", Role: domain.RoleUser}, &domain.CreateProjectRequest{Title: "Portfolio API"})
		assert.Equal(t, http.StatusForbidden, apperror.Code(err))
	})

	t.Run("slug collision gets suffix", func(t *testing.T) {
		uc, repo, techs := newProjectUsecase()
		techs.On("CountByIDs", ctx, []string{techID}).Return(1, nil)
		repo.On("SlugExists", ctx, "portfolio-api", "").Return(true, nil)
		repo.On("SlugExists", ctx, "portfolio-api-2", "").Return(true, nil)
		repo.On("SlugExists", ctx, "portfolio-api-3", "").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p *domain.Project) bool {
			return p.Slug == "portfolio-api-3" && p.OwnerID == adminID && p.LikesCount == 0
		})).Return(nil)

		p, err := uc.Create(ctx, adminPrincipal, &domain.CreateProjectRequest{
			Title:         "Portfolio API",
			Tags:          []string{"Go", " go ", "API"},
			TechnologyIDs: []string{techID, techID},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ProjectStatusDraft, p.Status)
		assert.Equal(t, []string{"go", "api"}, p.Tags)
		assert.Equal(t, []string{techID}, p.TechnologyIDs)
		repo.AssertExpectations(t)
	})

	t.Run("technology ids compared case-insensitively", func(t *testing.T) {
		uc, repo, techs := newProjectUsecase()
		techs.On("CountByIDs", ctx, []string{techID}).Return(1, nil)
		repo.On("SlugExists", ctx, "portfolio-api", "").Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		p, err := uc.Create(ctx, adminPrincipal, &domain.CreateProjectRequest{
			Title:         "Portfolio API",
			TechnologyIDs: []string{strings.ToUpper(techID), techID},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{techID}, p.TechnologyIDs)
		techs.AssertExpectations(t)
	})

	t.Run("unknown technology", func(t *testing.T) {
		uc, repo, techs := newProjectUsecase()
		techs.On("CountByIDs", ctx, []string{techID}).Return(0, nil)

		_, err := uc.Create(ctx, adminPrincipal, &domain.CreateProjectRequest{
			Title:         "Portfolio API",
			TechnologyIDs: []string{techID},
		})
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("completed before started", func(t *testing.T) {
		uc, _, _ := newProjectUsecase()
		_, err := uc.Create(ctx, adminPrincipal, &domain.CreateProjectRequest{
			Title:       "Portfolio API",
			StartedOn:   strPtr("2024-03-01"),
			CompletedOn: strPtr("2024-01-01"),
		})
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
	})
}

func TestProjectUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("other admin is not owner", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, OwnerID: "another-admin"}, nil)

		_, err := uc.Update(ctx, adminPrincipal, projectID, &domain.UpdateProjectRequest{Title: strPtr("New title")})
		assert.Equal(t, http.StatusForbidden, apperror.Code(err))
	})

	t.Run("title change regenerates slug and keeps likes", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID: projectID, OwnerID: adminID, Title: "Old", Slug: "old", LikesCount: 7, Status: domain.ProjectStatusDraft,
		}, nil)
		repo.On("SlugExists", ctx, "shiny-new-title", projectID).Return(false, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		p, err := uc.Update(ctx, adminPrincipal, projectID, &domain.UpdateProjectRequest{
			Title:  strPtr("Shiny New Title"),
			Status: strPtr(domain.ProjectStatusPublished),
		})
		require.NoError(t, err)
		assert.Equal(t, "shiny-new-title", p.Slug)
		assert.Equal(t, 7, p.LikesCount)
		assert.True(t, p.IsPublished())
	})
}

func TestProjectLikes(t *testing.T) {
	ctx := context.Background()
	visitor := &domain.Principal{ID: "u1", Role: domain.RoleUser}

	t.Run("requires session", func(t *testing.T) {
		uc, _, _ := newProjectUsecase()
		_, err := uc.Like(ctx, nil, projectID)
		assert.Equal(t, http.StatusUnauthorized, apperror.Code(err))
	})

	t.Run("unpublished cannot be liked", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusDraft}, nil)

		_, err := uc.Like(ctx, visitor, projectID)
		assert.Equal(t, http.StatusNotFound, apperror.Code(err))
		repo.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("like returns fresh count", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusPublished, LikesCount: 1}, nil).Once()
		repo.On("Like", ctx, projectID, "u1").Return(nil)
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusPublished, LikesCount: 2}, nil).Once()

		st, err := uc.Like(ctx, visitor, projectID)
		require.NoError(t, err)
		assert.True(t, st.Liked)
		assert.Equal(t, 2, st.Count)
	})

	t.Run("duplicate like conflicts", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusPublished}, nil)
		repo.On("Like", ctx, projectID, "u1").Return(apperror.Conflict("project already liked"))

		_, err := uc.Like(ctx, visitor, projectID)
		assert.Equal(t, http.StatusConflict, apperror.Code(err))
	})

	t.Run("unlike without like", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusPublished}, nil)
		repo.On("Unlike", ctx, projectID, "u1").Return(apperror.NotFound("project not liked"))

		_, err := uc.Unlike(ctx, visitor, projectID)
		assert.Equal(t, http.StatusNotFound, apperror.Code(err))
	})

	t.Run("anonymous status", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		repo.On("GetByID", ctx, projectID).Return(&domain.Project{ID: projectID, Status: domain.ProjectStatusPublished, LikesCount: 4}, nil)

		st, err := uc.LikeStatus(ctx, nil, projectID)
		require.NoError(t, err)
		assert.False(t, st.Liked)
		assert.Equal(t, 4, st.Count)
		repo.AssertNotCalled(t, "HasLiked", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("liked list", func(t *testing.T) {
		uc, repo, _ := newProjectUsecase()
		page := domain.PageRequest{Page: 2, Limit: 1}
		repo.On("ListLikedBy", ctx, "u1", page).Return([]domain.Project{{ID: projectID}}, int64(3), nil)

		res, err := uc.Liked(ctx, visitor, page)
		require.NoError(t, err)
		require.NotNil(t, res.Meta.Next)
		assert.Equal(t, 3, *res.Meta.Next)
		require.NotNil(t, res.Meta.Prev)
		assert.Equal(t, 1, *res.Meta.Prev)
	})
}
