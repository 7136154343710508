package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
)

type CVHandler struct {
	cvUC domain.CVUsecase
}

// NewCVHandler registers the aggregate CV routes, personal info and the seven
// owner-scoped section resources.
func NewCVHandler(public, protected *gin.RouterGroup, cvUC domain.CVUsecase, sections usecase.CVSections) {
	handler := &CVHandler{cvUC: cvUC}

	public.GET("/cv/users/:userId", handler.PublicCV)

	cv := protected.Group("/cv")
	{
		cv.GET("/me", handler.MyCV)
		cv.GET("/personal-info", handler.GetPersonalInfo)
		cv.PUT("/personal-info", handler.UpsertPersonalInfo)
		cv.DELETE("/personal-info", handler.DeletePersonalInfo)
	}

	registerSection(cv, domain.SectionSkills, "Skill", sections.Skills)
	registerSection(cv, domain.SectionExperiences, "Experience", sections.Experiences)
	registerSection(cv, domain.SectionEducations, "Education", sections.Educations)
	registerSection(cv, domain.SectionCertifications, "Certification", sections.Certifications)
	registerSection(cv, domain.SectionAwards, "Award", sections.Awards)
	registerSection(cv, domain.SectionInterests, "Interest", sections.Interests)
	registerSection(cv, domain.SectionReferences, "Reference", sections.References)
}

// PublicCV godoc
// @Summary      Public CV of a user
// @Tags         cv
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response{data=domain.CV}
// @Failure      400     {object}  response.Response
// @Router       /cv/users/{userId} [get]
func (h *CVHandler) PublicCV(c *gin.Context) {
	cv, err := h.cvUC.GetFullCV(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "CV retrieved", cv)
}

// MyCV godoc
// @Summary      Full CV of the caller
// @Tags         cv
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CV}
// @Failure      401  {object}  response.Response
// @Router       /cv/me [get]
// @Security     BearerAuth
func (h *CVHandler) MyCV(c *gin.Context) {
	p := principal(c)
	if p == nil {
		c.Error(errUnauthenticated)
		return
	}
	cv, err := h.cvUC.GetFullCV(c.Request.Context(), p.ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "CV retrieved", cv)
}

// GetPersonalInfo godoc
// @Summary      Personal info of the caller
// @Tags         cv
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.PersonalInfo}
// @Failure      404  {object}  response.Response
// @Router       /cv/personal-info [get]
// @Security     BearerAuth
func (h *CVHandler) GetPersonalInfo(c *gin.Context) {
	info, err := h.cvUC.GetPersonalInfo(c.Request.Context(), principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Personal info retrieved", info)
}

// UpsertPersonalInfo godoc
// @Summary      Create or replace personal info
// @Tags         cv
// @Accept       json
// @Produce      json
// @Param        request  body      domain.PersonalInfoRequest  true  "Personal info"
// @Success      200      {object}  response.Response{data=domain.PersonalInfo}
// @Failure      400      {object}  response.Response
// @Router       /cv/personal-info [put]
// @Security     BearerAuth
func (h *CVHandler) UpsertPersonalInfo(c *gin.Context) {
	var req domain.PersonalInfoRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.cvUC.UpsertPersonalInfo(c.Request.Context(), principal(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Personal info saved", info)
}

// DeletePersonalInfo godoc
// @Summary      Delete personal info
// @Tags         cv
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /cv/personal-info [delete]
// @Security     BearerAuth
func (h *CVHandler) DeletePersonalInfo(c *gin.Context) {
	if err := h.cvUC.DeletePersonalInfo(c.Request.Context(), principal(c)); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Personal info deleted", nil)
}

// sectionHandler serves one CV section; C and U are the create and update DTOs.
type sectionHandler[T any, C any, U any] struct {
	uc    domain.CVSectionUsecase[T, *C, *U]
	label string
}

func registerSection[T any, C any, U any](cv *gin.RouterGroup, path, label string, uc domain.CVSectionUsecase[T, *C, *U]) {
	h := &sectionHandler[T, C, U]{uc: uc, label: label}

	g := cv.Group("/" + path)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary      List the caller's entries of a CV section
// @Description  Ordered by sort_order then created_at.
// @Tags         cv
// @Produce      json
// @Param        section  path      string  true  "Section"  Enums(skills, experiences, educations, certifications, awards, interests, references)
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /cv/{section} [get]
// @Security     BearerAuth
func (h *sectionHandler[T, C, U]) List(c *gin.Context) {
	entries, err := h.uc.List(c.Request.Context(), principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, h.label+"s retrieved", entries)
}

// Get godoc
// @Summary      Get one CV section entry
// @Tags         cv
// @Produce      json
// @Param        section  path      string  true  "Section"  Enums(skills, experiences, educations, certifications, awards, interests, references)
// @Param        id       path      string  true  "Entry ID"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /cv/{section}/{id} [get]
// @Security     BearerAuth
func (h *sectionHandler[T, C, U]) Get(c *gin.Context) {
	entry, err := h.uc.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, h.label+" retrieved", entry)
}

// Create godoc
// @Summary      Add a CV section entry
// @Tags         cv
// @Accept       json
// @Produce      json
// @Param        section  path      string  true  "Section"  Enums(skills, experiences, educations, certifications, awards, interests, references)
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /cv/{section} [post]
// @Security     BearerAuth
func (h *sectionHandler[T, C, U]) Create(c *gin.Context) {
	var req C
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.uc.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, h.label+" created", entry)
}

// Update godoc
// @Summary      Partially update a CV section entry
// @Tags         cv
// @Accept       json
// @Produce      json
// @Param        section  path      string  true  "Section"  Enums(skills, experiences, educations, certifications, awards, interests, references)
// @Param        id       path      string  true  "Entry ID"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /cv/{section}/{id} [patch]
// @Security     BearerAuth
func (h *sectionHandler[T, C, U]) Update(c *gin.Context) {
	var req U
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.uc.Update(c.Request.Context(), principal(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, h.label+" updated", entry)
}

// Delete godoc
// @Summary      Delete a CV section entry
// @Tags         cv
// @Produce      json
// @Param        section  path      string  true  "Section"  Enums(skills, experiences, educations, certifications, awards, interests, references)
// @Param        id       path      string  true  "Entry ID"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /cv/{section}/{id} [delete]
// @Security     BearerAuth
func (h *sectionHandler[T, C, U]) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, h.label+" deleted", nil)
}
