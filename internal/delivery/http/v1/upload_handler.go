package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadUC domain.UploadUsecase
	maxBytes int64
}

func NewUploadHandler(protected *gin.RouterGroup, uploadUC domain.UploadUsecase, maxMB int) {
	if maxMB <= 0 {
		maxMB = 5
	}
	handler := &UploadHandler{uploadUC: uploadUC, maxBytes: int64(maxMB) << 20}

	protected.POST("/uploads", handler.Upload)
	protected.DELETE("/uploads", handler.Delete)
}

// Upload godoc
// @Summary      Upload a file
// @Description  Images are re-encoded to JPEG. Objects are stored under folder/userID/.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        folder  query     string  true  "Target folder"  Enums(avatars, projects, technologies, documents)
// @Param        file    formData  file    true  "File to upload"
// @Success      201     {object}  response.Response{data=domain.UploadedFile}
// @Failure      400     {object}  response.Response
// @Failure      413     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Router       /uploads [post]
// @Security     BearerAuth
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, "file is too large", err))
			return
		}
		c.Error(apperror.BadRequest("file is required"))
		return
	}
	if file.Size > h.maxBytes {
		c.Error(apperror.New(http.StatusRequestEntityTooLarge, "file is too large", nil))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	uploaded, err := h.uploadUC.Upload(c.Request.Context(), principal(c), c.Query("folder"), file.Filename, data)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "File uploaded", uploaded)
}

// Delete godoc
// @Summary      Delete an uploaded file
// @Description  Users may delete their own objects; admins may delete any.
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request  body      domain.DeleteUploadRequest  true  "Object path"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /uploads [delete]
// @Security     BearerAuth
func (h *UploadHandler) Delete(c *gin.Context) {
	var req domain.DeleteUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.uploadUC.Delete(c.Request.Context(), principal(c), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "File deleted", nil)
}
