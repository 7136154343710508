package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/usecase"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	public.GET("/health", handler.Check)
}

// Check godoc
// @Summary      Health check
// @Description  Pings the database and Redis when configured.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=usecase.HealthReport}
// @Failure      503  {object}  response.Response{data=usecase.HealthReport}
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	report := h.healthUC.Check(c.Request.Context())
	if !report.Healthy() {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Data:    report,
			Message: "System degraded",
			Status:  response.StatusError,
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", report)
}
