package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the public form endpoint and the admin inbox.
func NewContactHandler(public, admin *gin.RouterGroup, contactUC domain.ContactUsecase, submitLimit gin.HandlerFunc) {
	handler := &ContactHandler{contactUC: contactUC}

	public.POST("/contact", submitLimit, handler.Submit)

	inbox := admin.Group("/contact")
	{
		inbox.GET("", handler.List)
		inbox.GET("/stats", handler.Stats)
		inbox.GET("/export", handler.Export)
		inbox.GET("/:id", handler.Get)
		inbox.PATCH("/:id/status", handler.UpdateStatus)
		inbox.POST("/:id/reply", handler.Reply)
		inbox.DELETE("/:id", handler.Delete)
	}
}

// Submit godoc
// @Summary      Submit Contact Form
// @Description  Send a message through the contact form. This is a public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      201      {object}  response.Response{data=domain.ContactMessage}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req domain.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.contactUC.Submit(c.Request.Context(), &req, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Your message has been sent successfully!", msg)
}

// List godoc
// @Summary      List contact messages
// @Tags         contact
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        status  query     string  false  "unread, read, replied or archived"
// @Param        search  query     string  false  "Matches name, email, subject or message"
// @Param        sort    query     string  false  "created_at, name, email or status"
// @Param        order   query     string  false  "asc or desc"
// @Success      200     {object}  response.Response{data=domain.Page[domain.ContactMessage]}
// @Failure      403     {object}  response.Response
// @Router       /contact [get]
// @Security     BearerAuth
func (h *ContactHandler) List(c *gin.Context) {
	var filter domain.ContactFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.contactUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Messages retrieved", page)
}

// Get godoc
// @Summary      Get a contact message with its replies
// @Description  Opening an unread message marks it read.
// @Tags         contact
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response{data=domain.ContactMessage}
// @Failure      404  {object}  response.Response
// @Router       /contact/{id} [get]
// @Security     BearerAuth
func (h *ContactHandler) Get(c *gin.Context) {
	msg, err := h.contactUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message retrieved", msg)
}

// UpdateStatus godoc
// @Summary      Change a message status
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Message ID"
// @Param        request  body      domain.ContactStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=domain.ContactMessage}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /contact/{id}/status [patch]
// @Security     BearerAuth
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req domain.ContactStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.contactUC.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status updated", msg)
}

// Reply godoc
// @Summary      Reply to a contact message by email
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Message ID"
// @Param        request  body      domain.ContactReplyRequest  true  "Reply"
// @Success      201      {object}  response.Response{data=domain.ContactReply}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact/{id}/reply [post]
// @Security     BearerAuth
func (h *ContactHandler) Reply(c *gin.Context) {
	var req domain.ContactReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.contactUC.Reply(c.Request.Context(), principal(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Reply sent", reply)
}

// Delete godoc
// @Summary      Delete a contact message
// @Tags         contact
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contact/{id} [delete]
// @Security     BearerAuth
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message deleted", nil)
}

// Stats godoc
// @Summary      Message counts by status
// @Tags         contact
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ContactStats}
// @Router       /contact/stats [get]
// @Security     BearerAuth
func (h *ContactHandler) Stats(c *gin.Context) {
	stats, err := h.contactUC.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Stats retrieved", stats)
}

// Export godoc
// @Summary      Export contact messages
// @Description  Downloads every message matching the filters as a spreadsheet.
// @Tags         contact
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format  query     string  false  "xlsx (default) or csv"
// @Param        status  query     string  false  "unread, read, replied or archived"
// @Param        search  query     string  false  "Matches name, email, subject or message"
// @Success      200     {file}    file
// @Failure      400     {object}  response.Response
// @Router       /contact/export [get]
// @Security     BearerAuth
func (h *ContactHandler) Export(c *gin.Context) {
	var filter domain.ContactFilter
	if !bindQuery(c, &filter) {
		return
	}

	file, err := h.contactUC.Export(c.Request.Context(), filter, c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
