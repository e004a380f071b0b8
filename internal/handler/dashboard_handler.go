package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/middleware"
	"github.com/olagu/console/internal/service"
)

// DashboardHandler serves the console landing summary
type DashboardHandler struct {
	service service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  common.V2Response{data=service.DashboardSummary}
// @Failure      401  {object}  common.V2Response
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		common.HandleError(c, err, "Failed to load dashboard")
		return
	}
	common.V2Success(c, summary)
}
