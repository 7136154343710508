package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

type TechnologyHandler struct {
	techUC domain.TechnologyUsecase
}

func NewTechnologyHandler(public, admin *gin.RouterGroup, techUC domain.TechnologyUsecase) {
	handler := &TechnologyHandler{techUC: techUC}

	public.GET("/technologies", handler.List)
	public.GET("/technologies/:id", handler.Get)

	admin.POST("/technologies", handler.Create)
	admin.PATCH("/technologies/:id", handler.Update)
	admin.DELETE("/technologies/:id", handler.Delete)
}

// List godoc
// @Summary      List technologies
// @Tags         technologies
// @Produce      json
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        search    query     string  false  "Matches name"
// @Param        category  query     string  false  "Category"
// @Param        featured  query     bool    false  "Featured only"
// @Param        sort      query     string  false  "sort_order, name, category or created_at"
// @Param        order     query     string  false  "asc or desc"
// @Success      200       {object}  response.Response{data=domain.Page[domain.Technology]}
// @Router       /technologies [get]
func (h *TechnologyHandler) List(c *gin.Context) {
	var filter domain.TechnologyFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.techUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Technologies retrieved", page)
}

// Get godoc
// @Summary      Get a technology
// @Tags         technologies
// @Produce      json
// @Param        id   path      string  true  "Technology ID"
// @Success      200  {object}  response.Response{data=domain.Technology}
// @Failure      404  {object}  response.Response
// @Router       /technologies/{id} [get]
func (h *TechnologyHandler) Get(c *gin.Context) {
	tech, err := h.techUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Technology retrieved", tech)
}

// Create godoc
// @Summary      Create a technology
// @Tags         technologies
// @Accept       json
// @Produce      json
// @Param        technology  body      domain.CreateTechnologyRequest  true  "Technology"
// @Success      201         {object}  response.Response{data=domain.Technology}
// @Failure      400         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /technologies [post]
// @Security     BearerAuth
func (h *TechnologyHandler) Create(c *gin.Context) {
	var req domain.CreateTechnologyRequest
	if !bindJSON(c, &req) {
		return
	}

	tech, err := h.techUC.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Technology created", tech)
}

// Update godoc
// @Summary      Update a technology
// @Tags         technologies
// @Accept       json
// @Produce      json
// @Param        id          path      string                          true  "Technology ID"
// @Param        technology  body      domain.UpdateTechnologyRequest  true  "Fields to change"
// @Success      200         {object}  response.Response{data=domain.Technology}
// @Failure      400         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /technologies/{id} [patch]
// @Security     BearerAuth
func (h *TechnologyHandler) Update(c *gin.Context) {
	var req domain.UpdateTechnologyRequest
	if !bindJSON(c, &req) {
		return
	}

	tech, err := h.techUC.Update(c.Request.Context(), principal(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Technology updated", tech)
}

// Delete godoc
// @Summary      Delete a technology
// @Tags         technologies
// @Produce      json
// @Param        id   path      string  true  "Technology ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /technologies/{id} [delete]
// @Security     BearerAuth
func (h *TechnologyHandler) Delete(c *gin.Context) {
	if err := h.techUC.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Technology deleted", nil)
}
