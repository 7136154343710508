package usecase_test

import (
	"context"
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

func newTechnologyUsecase() (domain.TechnologyUsecase, *MockTechnologyRepo) {
	repo := new(MockTechnologyRepo)
	return usecase.NewTechnologyUsecase(repo, validation.New(), validation.NewSanitizer()), repo
}

func TestTechnologyCreate(t *testing.T) {
	ctx := context.Background()
	req := &domain.CreateTechnologyRequest{Name: "Node.js", Category: "backend", Description: strPtr("<i>Runtime</i>")}

	t.Run("duplicate name", func(t *testing.T) {
		uc, repo := newTechnologyUsecase()
		repo.On("NameExists", ctx, "Node.js", "").Return(true, nil)

		_, err := uc.Create(ctx, adminPrincipal, req)
		assert.Equal(t, http.StatusConflict, apperror.Code(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates with slug", func(t *testing.T) {
		uc, repo := newTechnologyUsecase()
		repo.On("NameExists", ctx, "Node.js", "").Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		tech, err := uc.Create(ctx, adminPrincipal, req)
		require.NoError(t, err)
		assert.Equal(t, "node-js", tech.Slug)
		assert.Equal(t, adminID, tech.OwnerID)
		assert.Equal(t, "Runtime", *tech.Description)
	})

	t.Run("bad category", func(t *testing.T) {
		uc, _ := newTechnologyUsecase()
		_, err := uc.Create(ctx, adminPrincipal, &domain.CreateTechnologyRequest{Name: "Go", Category: "snacks"})
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
	})

	t.Run("regular user", func(t *testing.T) {
		uc, _ := newTechnologyUsecase()
		_, err := uc.Create(ctx, &domain.Principal{ID: "u1", Role: domain.RoleUser}, req)
		assert.Equal(t, http.StatusForbidden, apperror.Code(err))
	})
}

func TestTechnologyUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("not owner", func(t *testing.T) {
		uc, repo := newTechnologyUsecase()
		repo.On("GetByID", ctx, techID).Return(&domain.Technology{ID: techID, OwnerID: "other"}, nil)

		_, err := uc.Update(ctx, adminPrincipal, techID, &domain.UpdateTechnologyRequest{Name: strPtr("Go")})
		assert.Equal(t, http.StatusForbidden, apperror.Code(err))
	})

	t.Run("case only rename skips conflict check", func(t *testing.T) {
		uc, repo := newTechnologyUsecase()
		repo.On("GetByID", ctx, techID).Return(&domain.Technology{ID: techID, OwnerID: adminID, Name: "golang", Slug: "golang"}, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		tech, err := uc.Update(ctx, adminPrincipal, techID, &domain.UpdateTechnologyRequest{Name: strPtr("GoLang")})
		require.NoError(t, err)
		assert.Equal(t, "GoLang", tech.Name)
		assert.Equal(t, "golang", tech.Slug)
		repo.AssertNotCalled(t, "NameExists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rename into existing name", func(t *testing.T) {
		uc, repo := newTechnologyUsecase()
		repo.On("GetByID", ctx, techID).Return(&domain.Technology{ID: techID, OwnerID: adminID, Name: "Go"}, nil)
		repo.On("NameExists", ctx, "Rust", techID).Return(true, nil)

		_, err := uc.Update(ctx, adminPrincipal, techID, &domain.UpdateTechnologyRequest{Name: strPtr("Rust")})
		assert.Equal(t, http.StatusConflict, apperror.Code(err))
	})
}

func TestTechnologyDeleteMissing(t *testing.T) {
	ctx := context.Background()
	uc, repo := newTechnologyUsecase()
	repo.On("GetByID", ctx, techID).Return(nil, apperror.NotFound("technology not found"))

	err := uc.Delete(ctx, adminPrincipal, techID)
	assert.Equal(t, http.StatusNotFound, apperror.Code(err))
}
