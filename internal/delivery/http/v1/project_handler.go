package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

type ProjectHandler struct {
	projectUC domain.ProjectUsecase
}

// NewProjectHandler registers the project routes. optional attaches the
// caller when a session is present so admins can see drafts.
func NewProjectHandler(optional, protected, admin *gin.RouterGroup, projectUC domain.ProjectUsecase) {
	handler := &ProjectHandler{projectUC: projectUC}

	protected.GET("/projects/liked", handler.Liked)
	protected.POST("/projects/:id/like", handler.Like)
	protected.DELETE("/projects/:id/like", handler.Unlike)

	optional.GET("/projects", handler.List)
	optional.GET("/projects/:id", handler.Get)
	optional.GET("/projects/:id/likes", handler.LikeStatus)

	admin.POST("/projects", handler.Create)
	admin.PATCH("/projects/:id", handler.Update)
	admin.DELETE("/projects/:id", handler.Delete)
}

// List godoc
// @Summary      List projects
// @Description  Visitors only see published projects.
// @Tags         projects
// @Produce      json
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Param        search      query     string  false  "Matches title or summary"
// @Param        tag         query     string  false  "Tag"
// @Param        technology  query     string  false  "Technology ID"
// @Param        featured    query     bool    false  "Featured only"
// @Param        status      query     string  false  "draft, published or archived (admins)"
// @Param        sort        query     string  false  "created_at, title or likes_count"
// @Param        order       query     string  false  "asc or desc"
// @Success      200         {object}  response.Response{data=domain.Page[domain.Project]}
// @Failure      400         {object}  response.Response
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var filter domain.ProjectFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.projectUC.List(c.Request.Context(), principal(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Projects retrieved", page)
}

// Get godoc
// @Summary      Get a project by id or slug
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID or slug"
// @Success      200  {object}  response.Response{data=domain.Project}
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectUC.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project retrieved", project)
}

// Create godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body      domain.CreateProjectRequest  true  "Project"
// @Success      201      {object}  response.Response{data=domain.Project}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) Create(c *gin.Context) {
	var req domain.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectUC.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Project created", project)
}

// Update godoc
// @Summary      Update a project
// @Description  Changing the title regenerates the slug.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Project ID"
// @Param        project  body      domain.UpdateProjectRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.Project}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /projects/{id} [patch]
// @Security     BearerAuth
func (h *ProjectHandler) Update(c *gin.Context) {
	var req domain.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectUC.Update(c.Request.Context(), principal(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project updated", project)
}

// Delete godoc
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectUC.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project deleted", nil)
}

// Like godoc
// @Summary      Like a project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID or slug"
// @Success      200  {object}  response.Response{data=domain.LikeStatus}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /projects/{id}/like [post]
// @Security     BearerAuth
func (h *ProjectHandler) Like(c *gin.Context) {
	status, err := h.projectUC.Like(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project liked", status)
}

// Unlike godoc
// @Summary      Remove a like
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID or slug"
// @Success      200  {object}  response.Response{data=domain.LikeStatus}
// @Failure      404  {object}  response.Response
// @Router       /projects/{id}/like [delete]
// @Security     BearerAuth
func (h *ProjectHandler) Unlike(c *gin.Context) {
	status, err := h.projectUC.Unlike(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Like removed", status)
}

// LikeStatus godoc
// @Summary      Like count and whether the caller liked the project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID or slug"
// @Success      200  {object}  response.Response{data=domain.LikeStatus}
// @Failure      404  {object}  response.Response
// @Router       /projects/{id}/likes [get]
func (h *ProjectHandler) LikeStatus(c *gin.Context) {
	status, err := h.projectUC.LikeStatus(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Like status retrieved", status)
}

// Liked godoc
// @Summary      Projects the caller liked
// @Tags         projects
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  response.Response{data=domain.Page[domain.Project]}
// @Failure      401    {object}  response.Response
// @Router       /projects/liked [get]
// @Security     BearerAuth
func (h *ProjectHandler) Liked(c *gin.Context) {
	var page domain.PageRequest
	if !bindQuery(c, &page) {
		return
	}

	result, err := h.projectUC.Liked(c.Request.Context(), principal(c), page)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Liked projects retrieved", result)
}
